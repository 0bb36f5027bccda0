package widget

import "errors"

// Sentinel errors for widget dispatch.  Both abort the enclosing render.
var (
	ErrHandlerNotFound  = errors.New("widget: handler not found")
	ErrTemplateNotFound = errors.New("widget: template not found")
)

// IsHandlerNotFound checks if err stems from a missing class or action.
func IsHandlerNotFound(err error) bool {
	return errors.Is(err, ErrHandlerNotFound)
}

// IsTemplateNotFound checks if err stems from a missing companion template.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}
