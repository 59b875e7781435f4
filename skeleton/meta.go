package skeleton

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// RelinkMeta points a Cocos Creator .json.meta file's texture list at the
// UUID found in the paired .png.meta file. Engines that import the rewritten
// skeleton through asset metadata need this, otherwise the skeleton keeps
// referencing the shared atlas texture it no longer uses.
func RelinkMeta(jsonMetaPath, pngMetaPath string) error {
	pngRaw, err := os.ReadFile(pngMetaPath)
	if err != nil {
		return errors.Wrap(err, "reading png meta")
	}
	var pngMeta struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(pngRaw, &pngMeta); err != nil {
		return errors.Wrap(err, "parsing png meta")
	}
	if pngMeta.UUID == "" {
		return errors.Errorf("png meta %s has no uuid", pngMetaPath)
	}

	jsonRaw, err := os.ReadFile(jsonMetaPath)
	if err != nil {
		return errors.Wrap(err, "reading json meta")
	}
	meta := &Obj{}
	if err := json.Unmarshal(jsonRaw, meta); err != nil {
		return errors.Wrap(err, "parsing json meta")
	}

	textures, err := json.Marshal([]string{pngMeta.UUID})
	if err != nil {
		return err
	}
	meta.Set("textures", textures)

	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding json meta")
	}
	return errors.Wrap(os.WriteFile(jsonMetaPath, out, 0644), "writing json meta")
}
