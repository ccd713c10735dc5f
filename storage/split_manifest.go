package storage

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
)

type ManifestObject struct {
	Key     string `json:"key"`
	Index   int    `json:"index"`
	NumRows int64  `json:"num_rows"`
}

func (obj *ManifestObject) Validate() error {
	if obj.Key == "" {
		return fmt.Errorf("%w: key is required", ErrManifestInvalid)
	}
	if obj.Index < 0 {
		return fmt.Errorf("%w: index must be positive", ErrManifestInvalid)
	}
	if obj.NumRows < 0 {
		return fmt.Errorf("%w: num rows must be positive", ErrManifestInvalid)
	}
	return nil
}

// SplitManifest describes one stored dataset split: which parquet objects
// hold its rows and the feature schema document the rows conform to.
type SplitManifest struct {
	Id          string           `json:"id"`
	DatasetName string           `json:"dataset_name"`
	ConfigName  string           `json:"config_name"`
	SplitName   string           `json:"split_name"`
	Version     int              `json:"version"`
	NumRows     int64            `json:"num_rows"`
	Features    json.RawMessage  `json:"features"`
	Objects     []ManifestObject `json:"objects"`
}

func NewSplitManifestFromBytes(data []byte) (*SplitManifest, error) {
	manifest := &SplitManifest{}
	err := json.Unmarshal(data, manifest)
	if err != nil {
		return nil, err
	}

	manifest.SortObjects()
	if ifErr := manifest.Validate(); ifErr != nil {
		return nil, ifErr
	}

	return manifest, nil
}

func (obj *SplitManifest) ToBytes() ([]byte, error) {
	return json.Marshal(obj)
}

func (obj *SplitManifest) SortObjects() {
	slices.SortFunc(obj.Objects, func(a, b ManifestObject) int {
		return cmp.Compare(a.Index, b.Index)
	})
}

func (obj *SplitManifest) SplitKey() elements.SplitKey {
	return elements.NewSplitKey(obj.DatasetName, obj.ConfigName, obj.SplitName)
}

// FeatureSchema parses the manifest's embedded features document.
func (obj *SplitManifest) FeatureSchema() (*features.Schema, error) {
	return features.ParseSchema(obj.Features)
}

func (obj *SplitManifest) Validate() error {
	if obj.Id == "" {
		return fmt.Errorf("%w: id is required", ErrManifestInvalid)
	}
	if obj.DatasetName == "" {
		return fmt.Errorf("%w: dataset name is required", ErrManifestInvalid)
	}
	if obj.SplitName == "" {
		return fmt.Errorf("%w: split name is required", ErrManifestInvalid)
	}
	if obj.Version < 0 {
		return fmt.Errorf("%w: version must be positive", ErrManifestInvalid)
	}
	if len(obj.Features) == 0 {
		return fmt.Errorf("%w: features document is required", ErrManifestInvalid)
	}

	for idx, manifestObject := range obj.Objects {
		if ifErr := manifestObject.Validate(); ifErr != nil {
			return fmt.Errorf("%w: object at index %d is invalid: %v", ErrManifestInvalid, idx, ifErr)
		}
		if idx != manifestObject.Index {
			return fmt.Errorf("%w: object at index %d has invalid index %d", ErrManifestInvalid, idx, manifestObject.Index)
		}
	}

	return nil
}
