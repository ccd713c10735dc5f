package features

// IFeature is the closed set of feature descriptors a dataset schema can
// declare. The set is sealed so a schema holding an unknown descriptor can
// not be constructed; unknown types are rejected when the schema is parsed.
type IFeature interface {
	TypeName() string
	sealed()
}

const (
	ClassLabelTypeName                   = "ClassLabel"
	ValueTypeName                        = "Value"
	SequenceTypeName                     = "Sequence"
	TranslationTypeName                  = "Translation"
	TranslationVariableLanguagesTypeName = "TranslationVariableLanguages"
)

// ClassLabel declares a categorical feature. Names are the label names in
// index order; raw values arrive already indexed so the names are carried
// for reference only.
type ClassLabel struct {
	Names []string
}

func (obj ClassLabel) TypeName() string { return ClassLabelTypeName }
func (obj ClassLabel) sealed()          {}

// Value declares a scalar feature with an arrow-style dtype string, for
// example "string", "int64" or "float32".
type Value struct {
	Dtype string
}

func (obj Value) TypeName() string { return ValueTypeName }
func (obj Value) sealed()          {}

func (obj Value) IsString() bool { return obj.Dtype == "string" }

// Sequence declares an ordered list feature with a uniform inner feature.
type Sequence struct {
	Inner IFeature
}

func (obj Sequence) TypeName() string { return SequenceTypeName }
func (obj Sequence) sealed()          {}

// Translation declares a fixed-language translation feature. Each raw
// value maps every declared language to one translated string.
type Translation struct {
	Languages []string
}

func (obj Translation) TypeName() string { return TranslationTypeName }
func (obj Translation) sealed()          {}

// TranslationVariableLanguages declares a translation feature whose raw
// values carry their own language list, a subset of Languages.
type TranslationVariableLanguages struct {
	Languages []string
}

func (obj TranslationVariableLanguages) TypeName() string {
	return TranslationVariableLanguagesTypeName
}
func (obj TranslationVariableLanguages) sealed() {}
