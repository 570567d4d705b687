package voxcollide

import "github.com/aukilabs/go-tooling/pkg/errors"

// Error types attached to errors returned by this package. Test them with
// errors.IsType from go-tooling.
const (
	ErrTypeConfig = "collider_config"
	ErrTypeInit   = "collider_init"
	ErrTypeState  = "collider_state"
)

func configError(field string, value any, msg string) error {
	return errors.New(msg).
		WithType(ErrTypeConfig).
		WithTag("field", field).
		WithTag("value", value)
}

func initError(strategy string, err error) error {
	return errors.New("collider init failed").
		WithType(ErrTypeInit).
		WithTag("strategy", strategy).
		Wrap(err)
}

func stateError(strategy, msg string) error {
	return errors.New(msg).
		WithType(ErrTypeState).
		WithTag("strategy", strategy)
}
