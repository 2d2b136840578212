package programmer

import "fmt"

// VerifyError reports the first quad that read back differently.
type VerifyError struct {
	Addr uint32
	Want [4]uint32
	Got  [4]uint32
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify failed at 0x%08X: want %08X, got %08X", e.Addr, e.Want, e.Got)
}
