package fields

const (
	TextFieldType  = "text"
	LabelFieldType = "label"
	ListFieldType  = "list"
)

// IField is a single converted field of an instance.
type IField interface {
	FieldType() string
}

// Token is one token of a text field. Text fields built by this package
// always hold the raw string as a single token; no splitting is done.
type Token struct {
	Text string
}

type TextField struct {
	Tokens []Token
}

// NewTextField wraps the whole text in one token.
func NewTextField(text string) TextField {
	return TextField{Tokens: []Token{{Text: text}}}
}

func (obj TextField) FieldType() string { return TextFieldType }

// LabelField holds one categorical value inside a named namespace. The
// label is carried verbatim; values are already indexed upstream so no
// label-to-index lookup happens here.
type LabelField struct {
	Label     interface{}
	Namespace string
}

func NewLabelField(label interface{}, namespace string) LabelField {
	return LabelField{Label: label, Namespace: namespace}
}

func (obj LabelField) FieldType() string { return LabelFieldType }

// ListField holds an ordered list of fields.
type ListField struct {
	Fields []IField
}

func NewListField(listFields ...IField) ListField {
	return ListField{Fields: listFields}
}

func (obj ListField) FieldType() string { return ListFieldType }

func (obj ListField) Len() int { return len(obj.Fields) }
