package tests

import (
	"fmt"
	"testing"

	"google.golang.org/protobuf/proto"

	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
	"github.com/alekLukanen/DatasetBridge/operations"
)

var TEST_SIZES [1]int = [1]int{100_000}

func buildBenchmarkSchema(tb testing.TB) *features.Schema {
	schema := features.NewSchema()
	if _, err := schema.AddFeature("text", features.Value{Dtype: "string"}); err != nil {
		tb.Fatal(err)
	}
	if _, err := schema.AddFeature("label", features.ClassLabel{Names: []string{"neg", "pos"}}); err != nil {
		tb.Fatal(err)
	}
	return schema
}

func buildBenchmarkInstances(tb testing.TB, schema *features.Schema, size int) []fields.Instance {
	instances := make([]fields.Instance, size)
	for i := range instances {
		instance, err := operations.EntryToInstance(schema, elements.Entry{
			"text":  fmt.Sprintf("review text %d", i),
			"label": int64(i % 2),
		})
		if err != nil {
			tb.Fatal(err)
		}
		instances[i] = instance
	}
	return instances
}

func BenchmarkAvroInstanceMarshal(b *testing.B) {

	schema := buildBenchmarkSchema(b)
	codec, err := operations.FeatureSchemaAvroCodec(schema)
	if err != nil {
		b.Fatal(err)
	}

	for _, size := range TEST_SIZES {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			for iter := 0; iter < b.N; iter++ {
				b.StopTimer()
				instances := buildBenchmarkInstances(b, schema, size)
				data := make([][]byte, size)
				b.StartTimer()
				for i := range size {
					nativeData, err := operations.InstanceToAvroNative(schema, instances[i])
					if err != nil {
						b.Error(err)
					}

					msgData, err := codec.BinaryFromNative(nil, nativeData)
					if err != nil {
						b.Error(err)
					}

					data[i] = msgData
				}
			}
		})
	}

}

func BenchmarkProtoInstanceMarshal(b *testing.B) {

	schema := buildBenchmarkSchema(b)

	for _, size := range TEST_SIZES {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			for iter := 0; iter < b.N; iter++ {
				b.StopTimer()
				instances := buildBenchmarkInstances(b, schema, size)
				data := make([][]byte, size)
				b.StartTimer()
				for i := range size {
					structValue, err := operations.InstanceToProto(schema, instances[i])
					if err != nil {
						b.Error(err)
					}

					msgData, err := proto.Marshal(structValue)
					if err != nil {
						b.Error(err)
					}

					data[i] = msgData
				}
			}
		})
	}

}
