package pricing

import "errors"

var (
	// ErrNoLines возвращается при запросе стоимости без единой услуги
	ErrNoLines = errors.New("pricing: no service lines provided")

	// ErrNegativePrice возвращается при отрицательной базовой цене во входе
	ErrNegativePrice = errors.New("pricing: negative base price")

	// ErrInternal возвращается при внутренних ошибках движка
	ErrInternal = errors.New("pricing: internal error")
)
