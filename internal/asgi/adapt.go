package asgi

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownApplicationType indicates that a loaded symbol matches none of
// the supported application forms.
var ErrUnknownApplicationType = errors.New("loaded object is not a supported application type")

// Adapt normalizes whichever application form a plugin exported into the
// single [Application] convention. Supported forms:
//
//   - Application (and the equivalent bare func type) — returned as-is;
//   - ApplicationFactory — the legacy double-callable, wrapped;
//   - Handler — the interface form, wrapped;
//   - pointers to any of the above, dereferenced once (plugin.Lookup returns
//     a pointer for package-level variables).
//
// The adaptation only bridges calling conventions; observable behavior of
// the application is unchanged.
func Adapt(obj any) (Application, error) {
	switch v := obj.(type) {
	case Application:
		return v, nil
	case func(context.Context, *Scope, ReceiveFunc, SendFunc) error:
		return v, nil
	case ApplicationFactory:
		return fromFactory(v), nil
	case func(*Scope) Instance:
		return fromFactory(v), nil
	case Handler:
		return v.Handle, nil
	case *Application:
		if v == nil || *v == nil {
			return nil, fmt.Errorf("%w: nil application variable", ErrUnknownApplicationType)
		}
		return *v, nil
	case *ApplicationFactory:
		if v == nil || *v == nil {
			return nil, fmt.Errorf("%w: nil application variable", ErrUnknownApplicationType)
		}
		return fromFactory(*v), nil
	case *Handler:
		if v == nil || *v == nil {
			return nil, fmt.Errorf("%w: nil application variable", ErrUnknownApplicationType)
		}
		return (*v).Handle, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownApplicationType, obj)
	}
}

// fromFactory bridges the double-callable form: the factory runs on first
// invocation, then the produced instance handles the connection.
func fromFactory(factory func(*Scope) Instance) Application {
	return func(ctx context.Context, scope *Scope, receive ReceiveFunc, send SendFunc) error {
		instance := factory(scope)
		if instance == nil {
			return fmt.Errorf("application factory returned nil instance")
		}
		return instance(receive, send)
	}
}
