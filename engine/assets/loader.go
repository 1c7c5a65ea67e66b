package assets

import "github.com/spaghettifunk/planogram/engine/renderer/metadata"

// Loader reads one kind of asset from disk. The concrete type of
// Resource.Data depends on the loader.
type Loader interface {
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
}
