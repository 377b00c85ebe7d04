package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRejectsBadArguments(t *testing.T) {
	ctx := context.Background()

	_, err := run(ctx, nil, []string{"launch"})
	assert.ErrorContains(t, err, "unknown command")

	_, err = run(ctx, nil, []string{"asset"})
	assert.ErrorContains(t, err, "needs an argument")

	_, err = run(ctx, nil, []string{"year", "twenty"})
	assert.ErrorContains(t, err, "bad year")
}
