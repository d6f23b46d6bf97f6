package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/goccy/go-json"
)

const (
	// maxBodyBytes caps JSON request bodies.
	maxBodyBytes = 1 << 20
	// maxUploadBytes caps multipart image uploads.
	maxUploadBytes = 5 << 20
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// decodeOptionalJSON accepts an empty body and leaves dst untouched.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := decodeJSON(w, r, dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// query reads list filters from the URL and collects malformed numbers as validation errors.
type query struct {
	values url.Values
	errs   validator.ValidationErrors
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) str(key string) *string {
	v := q.values.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func (q *query) num(key string) *int {
	v := q.values.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.errs.Add(key, key+" must be a number")
		return nil
	}
	return &n
}

func (q *query) pagination() common.Pagination {
	var p common.Pagination
	if n := q.num("page"); n != nil {
		p.Page = *n
	}
	if n := q.num("limit"); n != nil {
		p.Limit = *n
	}
	return p
}

func (q *query) dateRange() common.DateRange {
	return common.DateRange{StartDate: q.str("start_date"), EndDate: q.str("end_date")}
}

// err returns the parse errors, or the filter's own validation errors when parsing succeeded.
func (q *query) err(validate func() error) error {
	if len(q.errs) > 0 {
		return q.errs
	}
	return validate()
}

// formImage opens the multipart image in field and reports its declared content type.
func formImage(w http.ResponseWriter, r *http.Request, field string) (multipart.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	return file, header.Header.Get("Content-Type"), nil
}
