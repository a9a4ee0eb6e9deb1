package ml

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/twinrisk/twinrisk/internal/domain/model"
)

const (
	// ArtifactFormat identifies a serialized twinrisk pipeline.
	ArtifactFormat = "twinrisk.pipeline"
	// ArtifactFormatVersion is the only format version this build reads.
	ArtifactFormatVersion = 1

	maxArtifactSize = 64 << 20
)

var gzipMagic = []byte{0x1f, 0x8b}

type artifactDocument struct {
	Format        string           `json:"format"`
	FormatVersion int              `json:"format_version"`
	ModelVersion  string           `json:"model_version"`
	Features      []string         `json:"features"`
	Pipeline      pipelineDocument `json:"pipeline"`
}

type pipelineDocument struct {
	Steps []stepDocument `json:"steps"`
}

type stepDocument struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params"`
}

type gradientBoostingDocument struct {
	Hyperparameters
	InitRaw float64 `json:"init_raw"`
	Trees   []Tree  `json:"trees"`
}

// Artifact is a decoded and validated model artifact.
type Artifact struct {
	ModelVersion string
	Features     []string
	Pipeline     *Pipeline
	Checksum     string
	Compressed   bool
}

// Checksum returns the hex SHA-256 of a serialized artifact.
func Checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// DecodeArtifact parses a JSON artifact, optionally gzip-compressed, and
// validates it against schema.
func DecodeArtifact(payload []byte, schema *model.FeatureSchema) (*Artifact, error) {
	body := payload
	compressed := bytes.HasPrefix(payload, gzipMagic)
	if compressed {
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("opening gzip artifact: %w", err)
		}
		defer zr.Close()
		body, err = io.ReadAll(io.LimitReader(zr, maxArtifactSize+1))
		if err != nil {
			return nil, fmt.Errorf("decompressing artifact: %w", err)
		}
		if len(body) > maxArtifactSize {
			return nil, fmt.Errorf("artifact exceeds %d bytes", maxArtifactSize)
		}
	}

	var doc artifactDocument
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}

	if doc.Format != ArtifactFormat {
		return nil, fmt.Errorf("unsupported artifact format %q", doc.Format)
	}
	if doc.FormatVersion != ArtifactFormatVersion {
		return nil, fmt.Errorf("unsupported artifact format version %d", doc.FormatVersion)
	}
	if !schema.MatchesOrder(doc.Features) {
		return nil, fmt.Errorf("artifact features %v do not match schema order %v", doc.Features, schema.Names())
	}

	steps := make([]Step, 0, len(doc.Pipeline.Steps))
	for i, sd := range doc.Pipeline.Steps {
		stage, err := decodeStage(sd, schema.Len())
		if err != nil {
			return nil, fmt.Errorf("pipeline step %d: %w", i, err)
		}
		name := sd.Name
		if name == "" {
			name = sd.Type
		}
		steps = append(steps, Step{Name: name, Stage: stage})
	}

	p, err := NewPipeline(steps)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		ModelVersion: doc.ModelVersion,
		Features:     doc.Features,
		Pipeline:     p,
		Checksum:     Checksum(payload),
		Compressed:   compressed,
	}, nil
}

func decodeStage(sd stepDocument, nFeatures int) (Stage, error) {
	params := sd.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}

	switch sd.Type {
	case StepSMOTE:
		var s SMOTE
		if err := strictUnmarshal(params, &s); err != nil {
			return nil, fmt.Errorf("smote: %w", err)
		}
		return &s, nil

	case StepStandardScaler:
		var s StandardScaler
		if err := strictUnmarshal(params, &s); err != nil {
			return nil, fmt.Errorf("standard_scaler: %w", err)
		}
		if err := s.validate(nFeatures); err != nil {
			return nil, err
		}
		return &s, nil

	case StepGradientBoostingClassifier:
		var d gradientBoostingDocument
		if err := strictUnmarshal(params, &d); err != nil {
			return nil, fmt.Errorf("gradient_boosting_classifier: %w", err)
		}
		return NewGradientBoosting(d.Hyperparameters, d.InitRaw, d.Trees, nFeatures)

	case StepLogisticRegression:
		var l LogisticRegression
		if err := strictUnmarshal(params, &l); err != nil {
			return nil, fmt.Errorf("logistic_regression: %w", err)
		}
		if err := l.validate(nFeatures); err != nil {
			return nil, err
		}
		return &l, nil

	default:
		return nil, fmt.Errorf("unknown step type %q", sd.Type)
	}
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// EncodeArtifact serializes a pipeline in the artifact format. When compress
// is set the JSON is gzip-compressed.
func EncodeArtifact(modelVersion string, schema *model.FeatureSchema, p *Pipeline, compress bool) ([]byte, error) {
	doc := artifactDocument{
		Format:        ArtifactFormat,
		FormatVersion: ArtifactFormatVersion,
		ModelVersion:  modelVersion,
		Features:      schema.Names(),
	}

	for _, step := range p.Steps() {
		var params any
		switch s := step.Stage.(type) {
		case *GradientBoosting:
			params = gradientBoostingDocument{Hyperparameters: s.hyper, InitRaw: s.initRaw, Trees: s.trees}
		case *SMOTE, *StandardScaler, *LogisticRegression:
			params = s
		default:
			return nil, fmt.Errorf("step %q: cannot encode %T", step.Name, step.Stage)
		}
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encoding step %q: %w", step.Name, err)
		}
		doc.Pipeline.Steps = append(doc.Pipeline.Steps, stepDocument{
			Name:   step.Name,
			Type:   step.Stage.Type(),
			Params: raw,
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding artifact: %w", err)
	}
	if !compress {
		return body, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("compressing artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing artifact: %w", err)
	}
	return buf.Bytes(), nil
}
