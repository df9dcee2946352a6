// media/types.go
package media

type AssetType string

const (
	AssetTypeOriginal  AssetType = "original"
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeAvatar    AssetType = "avatar"
	AssetTypeUnknown   AssetType = "unknown"
)

// ImageProcessingOptions can hold parameters for transformations
type ImageProcessingOptions struct {
	TargetWidth  int
	TargetHeight int // 0 preserves aspect ratio
	MaxSize      int
	Quality      int
	Format       string // defaults to jpeg
}
