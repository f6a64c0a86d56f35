package island

import "github.com/go-gl/mathgl/mgl64"

// TileSpec describes the model the host engine should place for a tile,
// including the collider adjustment the engine applies to it.
type TileSpec struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Texture string `json:"texture"`

	Scale               mgl64.Vec3 `json:"scale"`
	ColliderOffset      mgl64.Vec3 `json:"collider_offset"`
	ColliderScaleOffset mgl64.Vec3 `json:"collider_scale_offset"`

	// Tint overrides the material colour when non-nil (RGB, 0–1).
	Tint *mgl64.Vec3 `json:"tint,omitempty"`
}

// TopTile is the grass-topped hex every cell stands on.
var TopTile = TileSpec{
	Name:                "hex_grass_bottom",
	Path:                "/assets/hex_grass_bottom/hex_grass_bottom.gltf",
	Texture:             "/assets/hex_grass_bottom/hexagons_medieval.png",
	Scale:               mgl64.Vec3{12, 12, 12},
	ColliderOffset:      mgl64.Vec3{0, -3, 0},
	ColliderScaleOffset: mgl64.Vec3{0, -6, 0},
}

// UnderTile is the tall earth column placed under each top tile.
var UnderTile = TileSpec{
	Name:                "hex_grass_under",
	Path:                "/assets/hex_grass_under/hex_grass_bottom.gltf",
	Texture:             "/assets/hex_grass_under/hexagons_medieval.png",
	Scale:               mgl64.Vec3{12, 100, 12},
	ColliderOffset:      mgl64.Vec3{0, -25, 0},
	ColliderScaleOffset: mgl64.Vec3{0, -50, 0},
	Tint:                &mgl64.Vec3{159.0 / 255, 86.0 / 255, 65.0 / 255},
}

// Tiles lists every tile model an island references.
func Tiles() []TileSpec {
	return []TileSpec{TopTile, UnderTile}
}
