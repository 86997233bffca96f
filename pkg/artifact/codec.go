package artifact

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// -------------------- Utilidades --------------------

// Encode escribe un valor genérico en formato gob
func Encode(w io.Writer, v any) error {
	enc := gob.NewEncoder(w)
	return enc.Encode(v)
}

// Decode lee un valor genérico en formato gob
func Decode(r io.Reader, v any) error {
	dec := gob.NewDecoder(r)
	return dec.Decode(v)
}

// -------------------- Archivos --------------------

// WriteFile guarda v en path. Escribe primero en un temporal y luego
// renombra, así un artefacto a medio escribir nunca reemplaza al anterior.
func WriteFile(path string, v any) error {
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, v); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("codificando artefacto: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}

// ReadFile carga en v el artefacto guardado en path
func ReadFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Decode(bufio.NewReader(f), v); err != nil {
		return fmt.Errorf("decodificando artefacto %s: %w", path, err)
	}
	return nil
}
