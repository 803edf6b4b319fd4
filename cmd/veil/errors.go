package main

import (
	"errors"
	"fmt"
)

var (
	ErrGetHomeDir    = errors.New("get home dir")
	ErrReadConfig    = errors.New("read config")
	ErrDecodeConfig  = errors.New("decode config")
	ErrInvalidMasker = errors.New("invalid masker config")
	ErrReadInput     = errors.New("read input")
)

func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
