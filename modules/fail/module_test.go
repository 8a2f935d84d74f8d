package fail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/erdos/internal/handlers"
)

func TestOnRunFail(t *testing.T) {
	t.Parallel()

	_, err := OnRunFail(context.Background(), handlers.Input{Args: cty.EmptyObjectVal})
	assert.EqualError(t, err, "failure requested")

	_, err = OnRunFail(context.Background(), handlers.Input{
		Args: cty.ObjectVal(map[string]cty.Value{"message": cty.StringVal("disk full")}),
	})
	assert.EqualError(t, err, "disk full")
}
