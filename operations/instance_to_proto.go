package operations

import (
	"github.com/alekLukanen/errs"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
)

/*
* Encode an instance as a protobuf struct for pipelines consuming proto
* instead of avro. The flattened native form is shared with the avro
* encoder so both encodings agree on field shapes.
 */
func InstanceToProto(schema *features.Schema, instance fields.Instance) (*structpb.Struct, error) {
	nativeData, err := InstanceToAvroNative(schema, instance)
	if err != nil {
		return nil, err
	}

	structValue, err := structpb.NewStruct(nativeData)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return structValue, nil
}

func InstancesToProto(schema *features.Schema, instances []fields.Instance) ([]*structpb.Struct, error) {
	structValues := make([]*structpb.Struct, len(instances))
	for i, instance := range instances {
		structValue, err := InstanceToProto(schema, instance)
		if err != nil {
			return nil, err
		}
		structValues[i] = structValue
	}
	return structValues, nil
}
