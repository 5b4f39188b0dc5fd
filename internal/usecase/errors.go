package usecase

import "errors"

// DomainError é erro de regra/entrada: vira 4xx na borda HTTP.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

func NewValidationError(fields []ValidationError) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "dados inválidos",
		Fields:  fields,
	}
}

// TechnicalError é falha de infraestrutura (planilha, fila, provedor): vira 5xx.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func AsTechnicalError(err error) (*TechnicalError, bool) {
	var te *TechnicalError
	ok := errors.As(err, &te)
	return te, ok
}

func storageError(msg string, err error) *TechnicalError {
	return &TechnicalError{Code: "STORAGE_ERROR", Message: msg, Err: err}
}
