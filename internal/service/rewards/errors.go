package rewards

import "errors"

var (
	// ErrInvalidRedeemRequest возвращается при отрицательном числе баллов к списанию
	ErrInvalidRedeemRequest = errors.New("rewards: invalid redeem points request")

	// ErrInternal возвращается при внутренних ошибках калькулятора
	ErrInternal = errors.New("rewards: internal error")
)
