// Command prepare genera los archivos que carga la API: limpia movies.dat
// de MovieLens y empaqueta catálogo y matriz en un artefacto gob.
//
//	prepare clean -in data/raw/movies.dat -out data/clean/movies.csv
//	prepare pack -movies data/clean/movies.csv -similarity data/model/similarity.csv -out data/model/catalog.gob
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"movierec/internal/catalog"
	"movierec/internal/logging"
)

func main() {
	logging.Init(logging.Config{Format: "console"})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "clean":
		err = runClean(os.Args[2:])
	case "pack":
		err = runPack(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logging.Fatal().Err(err).Str("command", os.Args[1]).Msg("falló")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "uso: prepare clean|pack [flags]")
}

func runClean(args []string) error {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	in := fs.String("in", "data/raw/movies.dat", "movies.dat de MovieLens")
	out := fs.String("out", "data/clean/movies.csv", "CSV limpio")
	workers := fs.Int("workers", runtime.NumCPU(), "goroutines de limpieza")
	fs.Parse(args)

	src, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(*out), os.ModePerm); err != nil {
		return err
	}
	dst, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer dst.Close()

	n, err := cleanMovies(src, dst, *workers)
	if err != nil {
		return err
	}

	logging.Info().Int("movies", n).Str("out", *out).Msg("limpieza de movies completada")
	return nil
}

func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	movies := fs.String("movies", "data/clean/movies.csv", "CSV limpio de películas")
	similarity := fs.String("similarity", "data/model/similarity.csv", "matriz de similitud precalculada (vacío = sin matriz)")
	out := fs.String("out", "data/model/catalog.gob", "artefacto de salida")
	fs.Parse(args)

	// New verifica que la matriz esté alineada con el catálogo
	cat, err := catalog.LoadCSV(*movies, *similarity)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*out), os.ModePerm); err != nil {
		return err
	}
	if err := catalog.WriteArtifact(*out, cat); err != nil {
		return err
	}

	logging.Info().Int("movies", cat.Len()).Bool("similarity", cat.HasMatrix()).Str("out", *out).Msg("artefacto generado")
	return nil
}
