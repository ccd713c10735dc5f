package elements

import (
	"fmt"
)

const DefaultConfigName = "default"

// SplitKey identifies one split of one dataset configuration. ConfigName
// may be empty for datasets that only have a default configuration.
type SplitKey struct {
	DatasetName string `json:"dataset_name"`
	ConfigName  string `json:"config_name"`
	SplitName   string `json:"split_name"`
}

func NewSplitKey(datasetName, configName, splitName string) SplitKey {
	return SplitKey{
		DatasetName: datasetName,
		ConfigName:  configName,
		SplitName:   splitName,
	}
}

func (obj SplitKey) IsValid() error {
	if obj.DatasetName == "" {
		return fmt.Errorf("%w| dataset name is required", ErrSplitKeyInvalid)
	}
	if obj.SplitName == "" {
		return fmt.Errorf("%w| split name is required", ErrSplitKeyInvalid)
	}
	return nil
}

// Path is the storage key fragment for the split. Datasets without an
// explicit configuration use the default configuration name.
func (obj SplitKey) Path() string {
	configName := obj.ConfigName
	if configName == "" {
		configName = DefaultConfigName
	}
	return fmt.Sprintf("%s/%s/%s", obj.DatasetName, configName, obj.SplitName)
}

func (obj SplitKey) String() string {
	return obj.Path()
}
