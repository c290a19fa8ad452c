package detect

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Anas09876/FinDeIdentify/internal/config"
	"github.com/Anas09876/FinDeIdentify/internal/logger"
)

func newTestDetector(t *testing.T, detectors ...string) *Detector {
	t.Helper()
	if len(detectors) == 0 {
		detectors = []string{"all"}
	}
	d, err := New(config.DetectionConfig{Detectors: detectors}, &logger.Logger{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}
	return d
}

func TestDetectAadhaar(t *testing.T) {
	d := newTestDetector(t)

	t.Run("GroupedWithSpaces", func(t *testing.T) {
		result := d.Detect("Aadhaar Number: 1234 5678 9012")
		if len(result.AadhaarNumbers) != 1 {
			t.Fatalf("Expected 1 Aadhaar match, got %d", len(result.AadhaarNumbers))
		}
		m := result.AadhaarNumbers[0]
		if m.Original != "1234 5678 9012" {
			t.Errorf("Unexpected original: %q", m.Original)
		}
		if m.Masked != "XXXX XXXX 9012" {
			t.Errorf("Unexpected masked form: %q", m.Masked)
		}
	})

	t.Run("GroupedWithHyphens", func(t *testing.T) {
		result := d.Detect("id 1234-5678-9012 on file")
		if len(result.AadhaarNumbers) != 1 {
			t.Fatalf("Expected 1 Aadhaar match, got %d", len(result.AadhaarNumbers))
		}
		if result.AadhaarNumbers[0].Masked != "XXXX XXXX 9012" {
			t.Errorf("Masked form should be canonical 3-block: %q", result.AadhaarNumbers[0].Masked)
		}
	})

	t.Run("Contiguous", func(t *testing.T) {
		result := d.Detect("123456789012")
		if len(result.AadhaarNumbers) != 1 {
			t.Fatalf("Expected 1 Aadhaar match, got %d", len(result.AadhaarNumbers))
		}
		if result.AadhaarNumbers[0].Masked != "XXXX XXXX 9012" {
			t.Errorf("Unexpected masked form: %q", result.AadhaarNumbers[0].Masked)
		}
	})

	t.Run("ThirteenDigitsRejected", func(t *testing.T) {
		result := d.Detect("1234567890123")
		if len(result.AadhaarNumbers) != 0 {
			t.Errorf("13-digit run must not match, got %d matches", len(result.AadhaarNumbers))
		}
	})

	t.Run("NonOverlappingLeftmostFirst", func(t *testing.T) {
		result := d.Detect("1111 2222 3333 4444 5555 6666")
		if len(result.AadhaarNumbers) != 2 {
			t.Fatalf("Expected 2 non-overlapping matches, got %d", len(result.AadhaarNumbers))
		}
		if result.AadhaarNumbers[0].Original != "1111 2222 3333" {
			t.Errorf("First match should be leftmost: %q", result.AadhaarNumbers[0].Original)
		}
		if result.AadhaarNumbers[1].Original != "4444 5555 6666" {
			t.Errorf("Second match should follow the first: %q", result.AadhaarNumbers[1].Original)
		}
	})
}

func TestDetectPAN(t *testing.T) {
	d := newTestDetector(t)

	t.Run("Basic", func(t *testing.T) {
		result := d.Detect("PAN Number: ABCDE1234F")
		if len(result.PANNumbers) != 1 {
			t.Fatalf("Expected 1 PAN match, got %d", len(result.PANNumbers))
		}
		m := result.PANNumbers[0]
		if m.Original != "ABCDE1234F" {
			t.Errorf("Unexpected original: %q", m.Original)
		}
		if m.Masked != "XXXXX234F" {
			t.Errorf("Unexpected masked form: %q", m.Masked)
		}
	})

	t.Run("LowercaseRejected", func(t *testing.T) {
		result := d.Detect("abcde1234f")
		if len(result.PANNumbers) != 0 {
			t.Errorf("Lowercase PAN must not match, got %d matches", len(result.PANNumbers))
		}
	})

	t.Run("EmbeddedRejected", func(t *testing.T) {
		result := d.Detect("XABCDE1234F")
		if len(result.PANNumbers) != 0 {
			t.Errorf("Embedded PAN must not match, got %d matches", len(result.PANNumbers))
		}
	})
}

func TestDetectPhone(t *testing.T) {
	d := newTestDetector(t)

	t.Run("WithCountryCode", func(t *testing.T) {
		result := d.Detect("Phone: +91 9876543210")
		if len(result.PhoneNumbers) != 1 {
			t.Fatalf("Expected 1 phone match, got %d", len(result.PhoneNumbers))
		}
		m := result.PhoneNumbers[0]
		if m.Original != "+91 9876543210" {
			t.Errorf("Unexpected original: %q", m.Original)
		}
		if m.Masked != "+91 XXXXX3210" {
			t.Errorf("Country-code prefix must be preserved verbatim: %q", m.Masked)
		}
	})

	t.Run("TenDigitRun", func(t *testing.T) {
		result := d.Detect("call 9876543210 today")
		if len(result.PhoneNumbers) != 1 {
			t.Fatalf("Expected 1 phone match, got %d", len(result.PhoneNumbers))
		}
		if result.PhoneNumbers[0].Masked != "XXXXX3210" {
			t.Errorf("Unexpected masked form: %q", result.PhoneNumbers[0].Masked)
		}
	})

	t.Run("FiveFiveGrouping", func(t *testing.T) {
		result := d.Detect("call 98765 43210 today")
		if len(result.PhoneNumbers) != 1 {
			t.Fatalf("Expected 1 phone match, got %d", len(result.PhoneNumbers))
		}
		if result.PhoneNumbers[0].Masked != "XXXXX3210" {
			t.Errorf("Unexpected masked form: %q", result.PhoneNumbers[0].Masked)
		}
	})

	t.Run("ElevenDigitRunRejected", func(t *testing.T) {
		result := d.Detect("98765432101")
		if len(result.PhoneNumbers) != 0 {
			t.Errorf("11-digit run must not match, got %v", result.PhoneNumbers)
		}
	})
}

func TestDetectBlurHeuristic(t *testing.T) {
	d := newTestDetector(t)

	t.Run("PhotoRegionForGovernmentID", func(t *testing.T) {
		result := d.Detect("Aadhaar: 1234 5678 9012")
		if len(result.BlurredRegions) != 1 {
			t.Fatalf("Expected exactly 1 blur region, got %d", len(result.BlurredRegions))
		}
		region := result.BlurredRegions[0]
		if region.Kind != "photo" {
			t.Errorf("Unexpected region kind: %s", region.Kind)
		}
		if region.Position.X != 50 || region.Position.Y != 50 || region.Position.Width != 120 || region.Position.Height != 150 {
			t.Errorf("Unexpected region position: %+v", region.Position)
		}
	})

	t.Run("NoRegionForPhoneOnly", func(t *testing.T) {
		result := d.Detect("Phone: 9876543210")
		if len(result.BlurredRegions) != 0 {
			t.Errorf("Phone-only text must not infer a photo region, got %d", len(result.BlurredRegions))
		}
	})
}

func TestDetectIdempotent(t *testing.T) {
	d := newTestDetector(t)
	text := "Aadhaar 1234 5678 9012, PAN ABCDE1234F, phone +91 9876543210"

	first := d.Detect(text)
	second := d.Detect(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Detection is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDetectEmptyText(t *testing.T) {
	d := newTestDetector(t)

	result := d.Detect("")
	if result.Total() != 0 {
		t.Errorf("Empty text should yield no matches, got %d", result.Total())
	}
	if result.AadhaarNumbers == nil || result.PANNumbers == nil || result.PhoneNumbers == nil || result.BlurredRegions == nil {
		t.Error("Empty result must have empty, non-nil collections")
	}
}

func TestDetectNoMatchesSerializesEmptyArrays(t *testing.T) {
	d := newTestDetector(t)

	payload, err := json.Marshal(d.Detect("nothing sensitive in here"))
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}

	// Clients iterate these collections; absence must read as [], never null.
	if strings.Contains(string(payload), "null") {
		t.Errorf("No-match result must serialize with empty arrays, got %s", payload)
	}
}

func TestConfigureDetectors(t *testing.T) {
	t.Run("UnknownDetector", func(t *testing.T) {
		_, err := New(config.DetectionConfig{Detectors: []string{"ssn"}}, &logger.Logger{Logger: zap.NewNop()})
		if err == nil {
			t.Fatal("Expected error for unknown detector")
		}
	})

	t.Run("SubsetOnly", func(t *testing.T) {
		d := newTestDetector(t, RuleAadhaar)
		result := d.Detect("PAN ABCDE1234F and Aadhaar 1234 5678 9012")
		if len(result.PANNumbers) != 0 {
			t.Errorf("PAN rule is disabled, got %d matches", len(result.PANNumbers))
		}
		if len(result.AadhaarNumbers) != 1 {
			t.Errorf("Aadhaar rule is enabled, got %d matches", len(result.AadhaarNumbers))
		}
	})
}
