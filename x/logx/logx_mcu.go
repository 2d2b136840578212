//go:build tinygo

package logx

import "max78000-hal/x/conv"

// Verbose gates Debug output. Set from the firmware main.
var Verbose = false

func emit(l Level, msg string, kv []any) {
	if l == LevelDebug && !Verbose {
		return
	}
	print(l.String(), " ", msg)
	var buf [20]byte
	for i := 0; i < len(kv); i += 2 {
		k, _ := kv[i].(string)
		print(" ", k, "=")
		if i+1 >= len(kv) {
			print("?")
			continue
		}
		switch v := kv[i+1].(type) {
		case string:
			print(v)
		case uint32:
			print(string(conv.Addr(buf[:], v)))
		case int:
			if v < 0 {
				print("-")
				v = -v
			}
			print(string(conv.Utoa(buf[:], uint64(v))))
		case uint:
			print(string(conv.Utoa(buf[:], uint64(v))))
		case uint64:
			print(string(conv.Utoa(buf[:], v)))
		case uint8:
			print(string(conv.Utoa(buf[:], uint64(v))))
		case bool:
			if v {
				print("true")
			} else {
				print("false")
			}
		case error:
			print(v.Error())
		default:
			print("<?>")
		}
	}
	println()
}
