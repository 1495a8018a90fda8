package validation

// competitorTerms maps a vendor to product and platform names from rival
// vendors. A term appearing in generated output without appearing in the
// source document means the model pulled in outside knowledge. Vendors
// absent from the map (and vendor-neutral bodies like CompTIA) have no
// leakage surface and pass trivially.
var competitorTerms = map[string][]string{
	"cisco": {
		"junos", "juniper srx", "arista eos", "cloudvision",
		"fortigate", "pan-os", "big-ip",
	},
	"juniper": {
		"cisco ios", "ios xe", "nx-os", "catalyst", "nexus",
		"fortigate", "pan-os",
	},
	"arista": {
		"ios xe", "nx-os", "junos", "catalyst", "fortigate",
	},
	"paloalto": {
		"fortigate", "fortios", "asa firewall", "firepower", "checkpoint",
	},
	"fortinet": {
		"pan-os", "panorama", "asa firewall", "firepower", "checkpoint",
	},
	"f5": {
		"netscaler", "haproxy", "avi vantage",
	},
	"vmware": {
		"hyper-v", "proxmox", "virtualbox", "xenserver",
	},
	"aws": {
		"azure portal", "azure cli", "gcloud compute", "google cloud console",
	},
	"azure": {
		"aws cli", "cloudformation", "gcloud compute", "s3 bucket",
	},
	"gcp": {
		"aws cli", "cloudformation", "azure portal", "s3 bucket",
	},
	"redhat": {
		"apt-get", "ubuntu server", "debian", "sles",
	},
}
