// Package logx is the diagnostic side channel for the HAL. On the host it
// forwards to glog; on the MCU it prints straight to the console with no
// allocation beyond what print itself does.
//
// Key/value pairs follow the message: logx.Debug("flc: erased", "page", 3).
// Nothing in the HAL treats logging as an error channel.
package logx

// Level orders the four severities. Debug is the only level that can be
// silenced at runtime on the MCU.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarning:
		return "W"
	case LevelError:
		return "E"
	}
	return "?"
}

func Debug(msg string, kv ...any)   { emit(LevelDebug, msg, kv) }
func Info(msg string, kv ...any)    { emit(LevelInfo, msg, kv) }
func Warning(msg string, kv ...any) { emit(LevelWarning, msg, kv) }
func Error(msg string, kv ...any)   { emit(LevelError, msg, kv) }
