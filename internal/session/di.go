package session

import (
	"github.com/halcyonlab/notetracker/internal/dispatch"
	"github.com/halcyonlab/notetracker/internal/recording"
	"github.com/halcyonlab/notetracker/internal/store"
	"github.com/halcyonlab/notetracker/internal/summary"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		st := do.MustInvoke[store.Store](i)
		dc := do.MustInvoke[dispatch.Client](i)
		gen := do.MustInvoke[summary.Generator](i)
		return NewService(st, dc, gen), nil
	})
	do.Provide(injector, func(i do.Injector) (*Reducer, error) {
		st := do.MustInvoke[store.Store](i)
		dc := do.MustInvoke[dispatch.Client](i)
		gen := do.MustInvoke[summary.Generator](i)
		rec := do.MustInvoke[recording.Uploader](i)
		return NewReducer(st, dc, gen, rec), nil
	})
}
