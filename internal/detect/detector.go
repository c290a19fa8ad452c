package detect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Anas09876/FinDeIdentify/internal/config"
	"github.com/Anas09876/FinDeIdentify/internal/document"
	"github.com/Anas09876/FinDeIdentify/internal/logger"
)

// photoRegion is the heuristic region assumed to carry a holder photo when a
// government-id number is present. A placeholder for real visual detection.
var photoRegion = document.Rect{X: 50, Y: 50, Width: 120, Height: 150}

// Detector locates regionally-specific PII patterns in extracted text and
// produces masked replacements for each match.
type Detector struct {
	enabled map[string]bool
	logger  *logger.Logger
}

var ruleNames = []string{RuleAadhaar, RulePAN, RulePhone}

// New creates a new PII detector instance
func New(cfg config.DetectionConfig, log *logger.Logger) (*Detector, error) {
	detector := &Detector{
		enabled: make(map[string]bool),
		logger:  log,
	}

	if err := detector.configureDetectors(cfg.Detectors); err != nil {
		return nil, fmt.Errorf("failed to configure detectors: %w", err)
	}

	log.Info("PII detector initialized",
		zap.Int("total_rules", len(ruleNames)),
		zap.Strings("enabled_rules", detector.EnabledRules()),
	)

	return detector, nil
}

// configureDetectors enables/disables detectors based on configuration
func (d *Detector) configureDetectors(detectors []string) error {
	for _, name := range ruleNames {
		d.enabled[name] = false
	}

	for _, detector := range detectors {
		if detector == "all" {
			for _, name := range ruleNames {
				d.enabled[name] = true
			}
			continue
		}

		if _, ok := d.enabled[detector]; !ok {
			return fmt.Errorf("unknown detector: %s", detector)
		}
		d.enabled[detector] = true
	}

	return nil
}

// Detect runs all enabled pattern scans over the text. It is deterministic
// and side-effect free; absence of matches yields empty collections, never an
// error.
func (d *Detector) Detect(text string) document.DetectionResult {
	result := document.DetectionResult{
		AadhaarNumbers: []document.Match{},
		PANNumbers:     []document.Match{},
		PhoneNumbers:   []document.Match{},
		BlurredRegions: []document.BlurRegion{},
	}

	if d.enabled[RuleAadhaar] {
		result.AadhaarNumbers = scanAadhaar(text)
	}
	if d.enabled[RulePAN] {
		result.PANNumbers = scanPAN(text)
	}
	if d.enabled[RulePhone] {
		result.PhoneNumbers = scanPhone(text)
	}

	// A government ID carrying an Aadhaar or PAN number typically carries a
	// holder photo. Real visual detection is out of scope, so assume one
	// photo region at a fixed default rectangle.
	if len(result.AadhaarNumbers) > 0 || len(result.PANNumbers) > 0 {
		result.BlurredRegions = append(result.BlurredRegions, document.BlurRegion{
			Kind:     document.RegionPhoto,
			Position: photoRegion,
		})
	}

	if result.Total() > 0 {
		d.logger.Debug("PII detected",
			zap.Int("aadhaar_count", len(result.AadhaarNumbers)),
			zap.Int("pan_count", len(result.PANNumbers)),
			zap.Int("phone_count", len(result.PhoneNumbers)),
			zap.Int("blur_regions", len(result.BlurredRegions)),
		)
	}

	return result
}

// EnabledRules returns a list of enabled rule names
func (d *Detector) EnabledRules() []string {
	var enabled []string
	for _, name := range ruleNames {
		if d.enabled[name] {
			enabled = append(enabled, name)
		}
	}
	return enabled
}
