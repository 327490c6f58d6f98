package dwarfdata

import (
	"encoding/binary"

	"github.com/espressif/idfsize/internal/idferr"
)

const opAddr = 0x03

// EvalAddress runs the restricted expression evaluator this analyzer
// needs: it recognizes DW_OP_addr and nothing else. Any other leading
// opcode yields no result rather than an address (the spec's "None"),
// which is not itself an error — only an expression with no bytes at
// all, or a DW_OP_addr whose operand is truncated, is.
func EvalAddress(expr []byte, addrSize uint8, order binary.ByteOrder) (uint64, bool, error) {
	if len(expr) == 0 {
		return 0, false, idferr.SemanticErrorf("dwarfdata: empty location expression")
	}
	if expr[0] != opAddr {
		return 0, false, nil
	}

	need := int(addrSize)
	if need == 0 {
		need = 4
	}
	if len(expr) < 1+need {
		return 0, false, idferr.FormatErrorf("dwarfdata: truncated DW_OP_addr operand")
	}

	if need == 8 {
		return order.Uint64(expr[1:9]), true, nil
	}
	return uint64(order.Uint32(expr[1:5])), true, nil
}
