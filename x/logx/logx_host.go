//go:build !tinygo

package logx

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Format renders msg and its key/value pairs as "msg k=v k=v". A trailing
// key without a value is printed as k=?. uint32 values print as 0x-hex since
// nearly all of them are addresses or register words.
func Format(msg string, kv []any) string {
	if len(kv) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		b.WriteByte(' ')
		fmt.Fprint(&b, kv[i])
		b.WriteByte('=')
		if i+1 >= len(kv) {
			b.WriteByte('?')
			continue
		}
		switch v := kv[i+1].(type) {
		case uint32:
			fmt.Fprintf(&b, "0x%08X", v)
		case error:
			b.WriteString(v.Error())
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}

func emit(l Level, msg string, kv []any) {
	// depth 2: emit <- Debug/Info/... <- caller
	switch l {
	case LevelDebug:
		if glog.V(2) {
			glog.InfoDepth(2, Format(msg, kv))
		}
	case LevelInfo:
		glog.InfoDepth(2, Format(msg, kv))
	case LevelWarning:
		glog.WarningDepth(2, Format(msg, kv))
	default:
		glog.ErrorDepth(2, Format(msg, kv))
	}
}
