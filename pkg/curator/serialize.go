package curator

import (
	"bytes"
	"compress/gzip"
	"encoding/json"

	"github.com/forgeflow-dev/taskforge/pkg/model"
	"github.com/forgeflow-dev/taskforge/pkg/xmlpkg"
)

// Writer serializes a finished Context Package for Phase 8. Abstracted
// behind an interface so tests can substitute a stub without exercising the
// real XML writer.
type Writer interface {
	Marshal(pkg *model.ContextPackage, format model.OutputFormat) (data []byte, ext string, err error)
}

// DefaultWriter serializes via Component I's XML writer, or plain
// encoding/json when the caller asks for JSON output.
type DefaultWriter struct{}

func (DefaultWriter) Marshal(pkg *model.ContextPackage, format model.OutputFormat) ([]byte, string, error) {
	if format == model.OutputFormatJSON {
		data, err := json.MarshalIndent(pkg, "", " ")
		return data, "json", err
	}
	xmlStr, err := xmlpkg.Marshal(pkg)
	if err != nil {
		return nil, "", err
	}
	return []byte(xmlStr), "xml", nil
}

// GzipCompressionThreshold is the serialized-size cutoff above which
// Phase 8 gzip-compresses the output.
const GzipCompressionThreshold = 256 * 1024

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
