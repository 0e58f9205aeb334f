package onnx

// ONNX protobuf data structures (hand-written). Field numbers follow
// onnx.proto3; the wire codec in encode.go/decode.go relies on the
// trailing field comments here being accurate.

// ModelProto is the top-level ONNX model container.
type ModelProto struct {
	IRVersion       int64               // field 1
	ProducerName    string              // field 2
	ProducerVersion string              // field 3
	Domain          string              // field 4
	ModelVersion    int64               // field 5
	DocString       string              // field 6
	Graph           *GraphProto         // field 7
	OpsetImport     []OperatorSetID     // field 8
	MetadataProps   []StringStringEntry // field 14
}

// GraphProto is the computation graph: nodes in topological order plus
// the named values flowing between them.
type GraphProto struct {
	Nodes        []NodeProto      // field 1
	Name         string           // field 2
	Initializers []TensorProto    // field 5
	DocString    string           // field 10
	Inputs       []ValueInfoProto // field 11
	Outputs      []ValueInfoProto // field 12
	ValueInfo    []ValueInfoProto // field 13
}

// NodeProto is a single operation.
type NodeProto struct {
	Inputs     []string         // field 1
	Outputs    []string         // field 2
	Name       string           // field 3
	OpType     string           // field 4
	Domain     string           // field 7, empty for the default domain
	Attributes []AttributeProto // field 5
	DocString  string           // field 6
}

// TensorProto holds constant tensor data (weights/initializers).
// Exactly one of RawData or the typed *Data fields is populated.
type TensorProto struct {
	Dims      []int64   // field 1
	DataType  int32     // field 2
	FloatData []float32 // field 4
	Int32Data []int32   // field 5
	Int64Data []int64   // field 7
	Name      string    // field 8
	RawData   []byte    // field 9
	DocString string    // field 12
}

// ValueInfoProto names and types one graph value.
type ValueInfoProto struct {
	Name      string     // field 1
	Type      *TypeProto // field 2
	DocString string     // field 3
}

// TypeProto describes a value's type. Only tensor types are modeled.
type TypeProto struct {
	TensorType *TensorTypeProto // field 1
}

// TensorTypeProto is a tensor's element type and shape.
type TensorTypeProto struct {
	ElemType int32             // field 1
	Shape    *TensorShapeProto // field 2
}

// TensorShapeProto lists dimensions.
type TensorShapeProto struct {
	Dims []DimensionProto // field 1
}

// DimensionProto is one dimension: either a fixed extent (DimValue) or
// a named symbolic extent (DimParam), never both.
type DimensionProto struct {
	DimValue int64  // field 1
	DimParam string // field 2
}

// AttributeProto is a named node attribute.
type AttributeProto struct {
	Name      string        // field 1
	F         float32       // field 2
	I         int64         // field 3
	S         []byte        // field 4
	T         *TensorProto  // field 5
	G         *GraphProto   // field 6
	Floats    []float32     // field 7
	Ints      []int64       // field 8
	Strings   [][]byte      // field 9
	Tensors   []TensorProto // field 10
	Graphs    []GraphProto  // field 11
	DocString string        // field 13
	Type      int32         // field 20
}

// OperatorSetID pins one operator domain to a version.
type OperatorSetID struct {
	Domain  string // field 1, empty for ai.onnx
	Version int64  // field 2
}

// StringStringEntry is one metadata key-value pair.
type StringStringEntry struct {
	Key   string // field 1
	Value string // field 2
}

// Element data types (TensorProto.DataType / TensorTypeProto.ElemType).
const (
	ElemUndefined = 0
	ElemFloat     = 1 // float32
	ElemUint8     = 2
	ElemInt8      = 3
	ElemUint16    = 4
	ElemInt16     = 5
	ElemInt32     = 6
	ElemInt64     = 7
	ElemString    = 8
	ElemBool      = 9
	ElemFloat16   = 10
	ElemDouble    = 11 // float64
	ElemUint32    = 12
	ElemUint64    = 13
)

// Attribute value kinds (AttributeProto.Type).
const (
	AttrUndefined = 0
	AttrFloat     = 1
	AttrInt       = 2
	AttrString    = 3
	AttrTensor    = 4
	AttrGraph     = 5
	AttrFloats    = 6
	AttrInts      = 7
	AttrStrings   = 8
	AttrTensors   = 9
	AttrGraphs    = 10
)

// Operator set domains and the versions this package emits.
const (
	DomainONNX   = ""
	DomainONNXML = "ai.onnx.ml"

	IRVersion      = 8
	OpsetVersion   = 13
	OpsetMLVersion = 2
)

// ElemTypeName returns a readable name for an element type code.
func ElemTypeName(code int32) string {
	switch code {
	case ElemFloat:
		return "float32"
	case ElemUint8:
		return "uint8"
	case ElemInt8:
		return "int8"
	case ElemUint16:
		return "uint16"
	case ElemInt16:
		return "int16"
	case ElemInt32:
		return "int32"
	case ElemInt64:
		return "int64"
	case ElemString:
		return "string"
	case ElemBool:
		return "bool"
	case ElemFloat16:
		return "float16"
	case ElemDouble:
		return "float64"
	case ElemUint32:
		return "uint32"
	case ElemUint64:
		return "uint64"
	default:
		return "undefined"
	}
}
