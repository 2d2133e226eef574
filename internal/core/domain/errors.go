package domain

import "errors"

// Ошибки, которые use case'ы возвращают наружу.
var (
	ErrRequirementNotFound = errors.New("requirement not found")
	ErrPropertyNotFound    = errors.New("property not found")
	ErrInvalidRequirement  = errors.New("invalid requirement")
)

// IsNotFound сообщает, что идентификатор не удалось разрешить через каталог.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequirementNotFound) || errors.Is(err, ErrPropertyNotFound)
}
