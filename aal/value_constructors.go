package aal

func NewNull() *Value               { return &Value{kind: KindNull} }
func NewString(s string) *Value     { return &Value{kind: KindString, str: s} }
func NewNumber(f float32) *Value    { return &Value{kind: KindNumber, num: f} }
func NewBlock(source string) *Value { return &Value{kind: KindBlock, str: source} }
func NewMap() *Value                { return &Value{kind: KindMap, m: newMap()} }

func newBool(b bool) *Value {
	if b {
		return NewNumber(1)
	}
	return NewNumber(0)
}
