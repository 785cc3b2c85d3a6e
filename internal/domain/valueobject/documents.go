package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

type DocumentKind string

const (
	DocumentIdentity         DocumentKind = "identity_document"
	DocumentEmploymentLetter DocumentKind = "employment_letter"
)

func NewDocumentKind(kind string) (DocumentKind, error) {
	switch k := DocumentKind(kind); k {
	case DocumentIdentity, DocumentEmploymentLetter:
		return k, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестный тип документа %q", kind))
}

// Documents хранит ссылки на загруженные документы по их типу.
// В базе лежит как JSONB.
type Documents map[DocumentKind]string

func (d Documents) Has(kind DocumentKind) bool {
	return d[kind] != ""
}

// Clone возвращает независимую копию набора документов.
func (d Documents) Clone() Documents {
	out := make(Documents, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d Documents) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

func (d *Documents) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*d = Documents{}
		return nil
	default:
		return fmt.Errorf("documents: неподдерживаемый тип %T", src)
	}

	out := Documents{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("documents: некорректный JSON: %w", err)
		}
	}
	*d = out
	return nil
}
