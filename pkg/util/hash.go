package util

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

// HashFilterKey creates an MD5 hash of a filter selection, used to key memoized views.
// The query is hashed exactly as typed since the view echoes it back.
func HashFilterKey(spec model.FilterSpec) string {
	builder := strings.Builder{}
	builder.WriteString(spec.EVType)
	builder.WriteString("|")
	builder.WriteString(spec.Make)
	builder.WriteString("|")
	builder.WriteString(strconv.Itoa(spec.YearFrom))
	builder.WriteString("|")
	builder.WriteString(strconv.Itoa(spec.YearTo))
	builder.WriteString("|")
	builder.WriteString(spec.Query)
	return hashString(builder.String())
}

func hashString(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}
