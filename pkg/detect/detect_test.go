package detect

import (
	"sort"
	"strings"
	"testing"

	"github.com/mindsparkle/docintel/pkg/profile"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	reg, err := profile.NewRegistry(profile.Builtin())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return New(reg)
}

func TestDetectCiscoStrongSignal(t *testing.T) {
	d := newTestDetector(t)

	text := "Chapter 4 covers routing. Router# show ip route displays the table. Required for the CCNA exam."
	got := d.Detect(text, "")

	if !got.Detected {
		t.Fatal("expected detection")
	}
	if got.VendorID != "cisco" {
		t.Errorf("VendorID = %q, want cisco", got.VendorID)
	}
	if got.Confidence <= 0.5 {
		t.Errorf("Confidence = %v, want > 0.5", got.Confidence)
	}
}

func TestDetectScoringPath(t *testing.T) {
	d := newTestDetector(t)

	tests := []struct {
		name       string
		text       string
		fileName   string
		wantVendor string
		wantFound  bool
	}{
		{
			name:       "juniper keywords",
			text:       "Configuring Junos on SRX: set system host-name fw1, then commit confirmed 5.",
			wantVendor: "juniper",
			wantFound:  true,
		},
		{
			name:       "aws services",
			text:       "Deploy the Lambda function behind CloudFormation, store assets in S3, and watch CloudWatch metrics in the VPC.",
			wantVendor: "aws",
			wantFound:  true,
		},
		{
			name:       "redhat shell session",
			text:       "On RHEL systems run systemctl enable httpd and check SELinux contexts with semanage fcontext -l before the RHCSA exam.",
			wantVendor: "redhat",
			wantFound:  true,
		},
		{
			name:       "filename contributes",
			text:       "Lesson 3: load balancing pools and health monitors.",
			fileName:   "F5 Networks BIG-IP LTM TMOS Guide.pdf",
			wantVendor: "f5",
			wantFound:  true,
		},
		{
			name:      "plain prose stays generic",
			text:      "The mitochondria is the powerhouse of the cell. Photosynthesis converts light into energy.",
			wantFound: false,
		},
		{
			name:      "short text stays generic",
			text:      "hello",
			wantFound: false,
		},
		{
			name:      "empty text stays generic",
			text:      "",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text, tt.fileName)
			if got.Detected != tt.wantFound {
				t.Fatalf("Detected = %v, want %v (result %+v)", got.Detected, tt.wantFound, got)
			}
			if !tt.wantFound {
				if got.VendorID != profile.GenericID {
					t.Errorf("VendorID = %q, want %q", got.VendorID, profile.GenericID)
				}
				if got.Confidence != 0 {
					t.Errorf("Confidence = %v, want 0", got.Confidence)
				}
				return
			}
			if got.VendorID != tt.wantVendor {
				t.Errorf("VendorID = %q, want %q", got.VendorID, tt.wantVendor)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("Confidence = %v, want (0,1]", got.Confidence)
			}
		})
	}
}

func TestDetectTopKeywordsPerVendor(t *testing.T) {
	// Any vendor's three highest-weight keywords, repeated, must be enough
	// for a positive detection of that vendor.
	reg, err := profile.NewRegistry(profile.Builtin())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	d := New(reg)

	for _, p := range reg.Vendors() {
		kws := append([]string(nil), p.Keywords...)
		sort.SliceStable(kws, func(i, j int) bool {
			return d.keywordWeight(strings.ToLower(kws[i])) > d.keywordWeight(strings.ToLower(kws[j]))
		})
		if len(kws) > 3 {
			kws = kws[:3]
		}
		text := strings.Repeat(strings.Join(kws, ". ")+". ", 3)

		got := d.Detect(text, "")
		if !got.Detected {
			t.Errorf("%s: top keywords %v not detected", p.ID, kws)
			continue
		}
		if got.VendorID != p.ID {
			t.Errorf("%s: detected as %q instead (keywords %v)", p.ID, got.VendorID, kws)
		}
	}
}

func TestShortKeywordWordBoundary(t *testing.T) {
	d := newTestDetector(t)

	// "ace" appears inside "interface" but must not count as the Arista
	// certification; the CCNA strong signal resolves the vendor instead.
	text := "Enter interface configuration mode before enabling the port. CCNA objective 2.1."
	got := d.Detect(text, "")
	if got.VendorID != "cisco" {
		t.Errorf("VendorID = %q, want cisco", got.VendorID)
	}

	// Standalone ACE with Arista context counts for Arista.
	aristaText := "The ACE exam covers Arista EOS, CloudVision, and MLAG design for leaf-spine fabrics."
	got = d.Detect(aristaText, "")
	if got.VendorID != "arista" {
		t.Errorf("VendorID = %q, want arista", got.VendorID)
	}
	if got.Certification != "ACE" {
		t.Errorf("Certification = %q, want ACE", got.Certification)
	}
}

func TestContainsToken(t *testing.T) {
	tests := []struct {
		haystack string
		token    string
		want     bool
	}{
		{"the ios image", "ios", true},
		{"bios settings", "ios", false},
		{"ios", "ios", true},
		{"cisco_ios", "ios", false},
		{"run ios.", "ios", true},
		{"bios then ios", "ios", true},
		{"", "ios", false},
	}

	for _, tt := range tests {
		if got := containsToken(tt.haystack, tt.token); got != tt.want {
			t.Errorf("containsToken(%q, %q) = %v, want %v", tt.haystack, tt.token, got, tt.want)
		}
	}
}

func TestDetectCapsMatchLists(t *testing.T) {
	reg, err := profile.NewRegistry(profile.Builtin())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	d := New(reg, WithWeights(func() Weights {
		w := DefaultWeights()
		w.MaxMatches = 3
		return w
	}()))

	text := "AWS Amazon Web Services EC2 S3 Lambda DynamoDB CloudFormation CloudWatch IAM VPC"
	got := d.Detect(text, "")
	if !got.Detected || got.VendorID != "aws" {
		t.Fatalf("unexpected result %+v", got)
	}
	if len(got.MatchedKeywords) > 3 {
		t.Errorf("MatchedKeywords length = %d, want <= 3", len(got.MatchedKeywords))
	}
}

func TestConfidenceClamped(t *testing.T) {
	reg, err := profile.NewRegistry([]*profile.Profile{
		{
			ID:             "tiny",
			Name:           "Tiny",
			Keywords:       []string{"frobnicator"},
			Certifications: []string{"FROBCERT-1", "FROBCERT-2", "FROBCERT-3"},
			Rules:          profile.AIRules{TechnicalDepth: profile.DepthBasic},
		},
		{ID: profile.GenericID, Name: "Generic", Rules: profile.AIRules{TechnicalDepth: profile.DepthIntermediate}},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	d := New(reg)

	// One keyword plus three certifications: 3 + 60 raw score against a
	// max estimate of 53, so the ratio must clamp at 1.
	got := d.Detect("frobnicator frobcert-1 frobcert-2 frobcert-3", "")
	if !got.Detected {
		t.Fatal("expected detection")
	}
	if got.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1", got.Confidence)
	}
}
