package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type rawMovie struct {
	line   int
	id     int
	title  string
	genres string
}

// -------------------- Limpieza concurrente de MOVIES --------------------

// cleanMovies lee movies.dat (id::title::genres) y escribe el CSV limpio.
// Los workers pueden terminar en cualquier orden, así que cada película
// lleva su número de línea y la salida se reordena por él: el orden del
// CSV define las filas de la matriz.
func cleanMovies(in io.Reader, out io.Writer, workers int) (int, error) {
	if workers < 1 {
		workers = 1
	}

	type line struct {
		n    int
		text string
	}

	lines := make(chan line, 1000)
	results := make(chan rawMovie, 1000)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for l := range lines {
				parts := strings.Split(l.text, "::")
				if len(parts) != 3 {
					continue
				}
				id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
				title := strings.TrimSpace(parts[1])
				if err != nil || title == "" {
					continue
				}
				results <- rawMovie{line: l.n, id: id, title: title, genres: strings.TrimSpace(parts[2])}
			}
		}()
	}

	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		n := 0
		for scanner.Scan() {
			lines <- line{n: n, text: scanner.Text()}
			n++
		}
		scanErr = scanner.Err()
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var movies []rawMovie
	for m := range results {
		movies = append(movies, m)
	}
	if scanErr != nil {
		return 0, scanErr
	}

	sort.Slice(movies, func(i, j int) bool { return movies[i].line < movies[j].line })

	w := csv.NewWriter(out)
	w.Write([]string{"MovieID", "Title", "Genres"})

	seen := make(map[int]bool)
	written := 0
	for _, m := range movies {
		if seen[m.id] {
			continue
		}
		seen[m.id] = true
		w.Write([]string{strconv.Itoa(m.id), m.title, m.genres})
		written++
	}

	w.Flush()
	return written, w.Error()
}
