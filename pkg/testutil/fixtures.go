package testutil

import (
	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestRequestID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestArtifactID1 = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	TestArtifactID2 = uuid.MustParse("00000000-0000-0000-0000-000000000102")
)
