package dispatch

import (
	"github.com/halcyonlab/notetracker/internal/config"
	"github.com/halcyonlab/notetracker/internal/dispatch"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (dispatch.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPClient(c.NotetakerAPIBaseURL, c.NotetakerAPIKey), nil
	})
}
