package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jusunglee/trainusage/internal/logging"
)

// ProtobufContentType is served when a client asks for protobuf
const ProtobufContentType = "application/x-protobuf"

func wantsProto(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "proto") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), ProtobufContentType)
}

// toProtoValue converts any JSON-encodable value into a google.protobuf.Value,
// so the same payload can be served as binary protobuf
func toProtoValue(data interface{}) (*structpb.Value, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return structpb.NewValue(generic)
}

func (h *Handler) writeProto(w http.ResponseWriter, r *http.Request, data interface{}) {
	value, err := toProtoValue(data)
	if err == nil {
		var out []byte
		out, err = proto.Marshal(value)
		if err == nil {
			w.Header().Set("Content-Type", ProtobufContentType)
			w.Write(out)
			return
		}
	}
	logging.LogError(h.requestLogger(r), "encode protobuf response failed", err)
	h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
}
