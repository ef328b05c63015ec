package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Now is the clock used for ids and timestamps. Tests replace it.
var Now = func() time.Time {
	return time.Now().UTC()
}

// NewID returns "<PREFIX>-<unix millis>-<suffix>". Unique enough for records
// minted offline, not suitable as a secret.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, Now().UnixMilli(), randomSuffix())
}

// DerivedID returns a stable id for a record synthesized from seed, so the
// same input always yields the same id across loads.
func DerivedID(prefix, seed string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.ToLower(strings.TrimSpace(seed))))
	return prefix + "-" + id.String()
}

// NewSessionToken mints an opaque token for a locally authenticated session.
func NewSessionToken() string {
	return fmt.Sprintf("local-%d-%s", Now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
