// Command formclass prints the form class group of a negative discriminant
// and classifies quadratic forms in it.
//
//	formclass -D -431 -form 22,91,99 -format json
package main

import (
	"io"
	"log"
	"os"

	"github.com/f3rmion/formclass/internal/formclass"
	"github.com/f3rmion/formclass/internal/logger"
)

func main() {
	cfg, err := formclass.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.InitLogger(cfg.Log); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var w io.Writer = os.Stdout
	if cfg.OutPath != "-" {
		f, err := os.Create(cfg.OutPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}
	if err := formclass.Run(cfg, w); err != nil {
		logger.Logger.Error(err.Error())
		log.Fatal(err)
	}
}
