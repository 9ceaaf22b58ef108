package decompose

import "context"

// StaticEpicResolver is the default EpicContextResolver: every project maps
// to a single fixed epic ID. Production deployments that track real epics
// should supply their own resolver; this one exists so Manager has a usable
// default when no project-management integration is wired.
type StaticEpicResolver struct {
	EpicID string
}

func (r StaticEpicResolver) ResolveEpic(ctx context.Context, projectID string) (string, error) {
	return r.EpicID, nil
}
