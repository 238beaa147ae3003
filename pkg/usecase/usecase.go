package usecase

import (
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
)

type UseCases struct {
	Character *CharacterUseCase
}

type options struct {
	capturer interfaces.Capturer
}

type Option func(*options)

// WithCapturer sets the capture backend used by Generate. Without it the
// rendered prompt is always returned as the fallback.
func WithCapturer(capturer interfaces.Capturer) Option {
	return func(o *options) {
		o.capturer = capturer
	}
}

func New(storage interfaces.Storage, opts ...Option) *UseCases {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &UseCases{
		Character: NewCharacterUseCase(storage, o.capturer),
	}
}
