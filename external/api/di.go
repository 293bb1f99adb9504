package api

import (
	"net/http"

	"github.com/halcyonlab/notetracker/internal/session"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (http.Handler, error) {
		svc := do.MustInvoke[*session.Service](i)
		reducer := do.MustInvoke[*session.Reducer](i)
		return NewServer(svc, reducer), nil
	})
}
