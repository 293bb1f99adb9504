package recording

import (
	"github.com/halcyonlab/notetracker/internal/config"
	"github.com/halcyonlab/notetracker/internal/recording"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (recording.Uploader, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.RecordingMirrorEnabled() {
			return recording.NopUploader{}, nil
		}
		return NewSupabaseUploader(c.SupabaseURL, c.SupabaseAPIKey, c.RecordingBucket)
	})
}
