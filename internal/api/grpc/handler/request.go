package handler

import (
	"math"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/novelnest/novelnest-server/internal/model"
)

// stringField reads a member of req as text. Missing members and
// non-scalar values read as empty so validation reports them.
func stringField(req *structpb.Struct, name string) string {
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func profileFields(p model.Profile) map[string]any {
	return map[string]any{
		"mobileNumber": p.MobileNumber,
		"firstName":    p.FirstName,
		"lastName":     p.LastName,
	}
}

func retryAfterSeconds(d time.Duration) float64 {
	return math.Ceil(d.Seconds())
}
