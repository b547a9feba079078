package component

import "github.com/milk9111/trackanim/compose"

var OffsetsComponent = NewComponent[compose.Offsets]()
