package app

import (
	"io"

	"github.com/vk/erdos/internal/handlers"
	"github.com/vk/erdos/modules/env_vars"
	"github.com/vk/erdos/modules/fail"
	"github.com/vk/erdos/modules/http_request"
	"github.com/vk/erdos/modules/print"
	"github.com/vk/erdos/modules/s3"
	"github.com/vk/erdos/modules/sleep"
	"github.com/vk/erdos/modules/socketio"
)

// coreModules is the definitive list of all node kinds that are compiled
// into the erdos binary.
func coreModules(outW io.Writer) []handlers.Module {
	return []handlers.Module{
		&env_vars.Module{},
		&fail.Module{},
		&http_request.Module{},
		&print.Module{Out: outW},
		&s3.Module{},
		&sleep.Module{},
		&socketio.Module{},
	}
}
