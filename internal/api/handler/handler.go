package handler

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 5 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "erro ao ler corpo da requisição")
	}
	if len(raw) == 0 {
		return errors.New("corpo da requisição vazio")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrap(err, "erro ao decodificar corpo da requisição")
	}
	return nil
}
