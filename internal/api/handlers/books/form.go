package books

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/storage"
	"github.com/eldieng/Fawsayni-Tech/internal/validate"
)

const coverField = "coverImage"

var editable = []string{"title", "author", "description", "isbn", "publishedYear", "genre", "available"}

// bookForm is a request body reduced to the editable fields that were sent,
// plus an optional cover upload. A field sent as null or "" is present with
// an empty value.
type bookForm struct {
	fields map[string]string
	cover  *multipart.FileHeader
}

// readForm accepts multipart/form-data, urlencoded forms and JSON. Unknown
// keys, including the owner, are ignored.
func readForm(r *http.Request) (bookForm, error) {
	form := bookForm{fields: map[string]string{}}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(storage.MaxImageSize + 1<<20); err != nil {
			return form, bodyError(err, "Formulaire invalide")
		}
		for _, k := range editable {
			if v, ok := r.MultipartForm.Value[k]; ok && len(v) > 0 {
				form.fields[k] = v[0]
			}
		}
		if files := r.MultipartForm.File[coverField]; len(files) > 0 {
			form.cover = files[0]
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return form, bodyError(err, "Formulaire invalide")
		}
		for _, k := range editable {
			if v, ok := r.PostForm[k]; ok && len(v) > 0 {
				form.fields[k] = v[0]
			}
		}
	default:
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return form, bodyError(err, "Corps de requête JSON invalide")
		}
		for _, k := range editable {
			v, ok := raw[k]
			if !ok {
				continue
			}
			s, err := jsonScalar(v)
			if err != nil {
				return form, apperr.Wrap(err, http.StatusBadRequest, "Le champ "+k+" est invalide")
			}
			form.fields[k] = s
		}
	}
	return form, nil
}

func bodyError(err error, msg string) error {
	var mb *http.MaxBytesError
	if errors.As(err, &mb) {
		return err
	}
	return apperr.Wrap(err, http.StatusBadRequest, msg)
}

// jsonScalar renders a JSON string, number, bool or null as form text.
func jsonScalar(v json.RawMessage) (string, error) {
	var x any
	if err := json.Unmarshal(v, &x); err != nil {
		return "", err
	}
	switch t := x.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strings.TrimSpace(string(v)), nil
	}
	return "", errors.New("not a scalar")
}

// merge applies the sent fields over in and normalizes text.
func (f bookForm) merge(in BookInput) (BookInput, error) {
	for _, k := range editable {
		v, ok := f.fields[k]
		if !ok {
			continue
		}
		switch k {
		case "title":
			in.Title = validate.Text(v)
		case "author":
			in.Author = validate.Text(v)
		case "description":
			in.Description = strings.TrimSpace(v)
		case "genre":
			in.Genre = validate.Text(v)
		case "isbn":
			in.ISBN = validate.ISBN(v)
		case "publishedYear":
			v = strings.TrimSpace(v)
			if v == "" {
				in.PublishedYear = nil
				continue
			}
			y, err := strconv.Atoi(v)
			if err != nil {
				return in, apperr.Wrap(err, http.StatusBadRequest, "L'année de publication doit être un nombre entier")
			}
			in.PublishedYear = &y
		case "available":
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return in, apperr.Wrap(err, http.StatusBadRequest, "Le champ available doit être true ou false")
			}
			in.Available = b
		}
	}
	return in, validate.Struct(in)
}
