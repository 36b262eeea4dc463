package kroki

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
)

// plantumlEncoding is base64 over the alphabet used by PlantUML servers.
var plantumlEncoding = base64.NewEncoding(
	"0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_",
).WithPadding(base64.NoPadding)

// Encode compresses text with zlib at best compression and returns it as
// URL-safe base64, the form Kroki accepts in GET paths.
func Encode(text string) string {
	return base64.URLEncoding.EncodeToString(zlibBytes([]byte(text)))
}

// EncodePlantUML returns text in the encoding PlantUML servers expect after
// /uml/: raw deflate followed by PlantUML's base64 alphabet.
func EncodePlantUML(text string) string {
	return plantumlEncoding.EncodeToString(deflateBytes([]byte(text)))
}

func zlibBytes(data []byte) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail and the level is valid.
	w, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func deflateBytes(data []byte) []byte {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// mermaidState is the document mermaid.live keeps in its URL fragment.
type mermaidState struct {
	Code    string         `json:"code"`
	Mermaid mermaidOptions `json:"mermaid"`
}

type mermaidOptions struct {
	Theme string `json:"theme"`
}

func encodeMermaidLive(code string) string {
	state, _ := json.Marshal(mermaidState{
		Code:    code,
		Mermaid: mermaidOptions{Theme: "default"},
	})
	return base64.URLEncoding.EncodeToString(zlibBytes(state))
}

func encodeD2Playground(code string) string {
	return base64.URLEncoding.EncodeToString(deflateBytes([]byte(code)))
}
