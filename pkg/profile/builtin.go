package profile

import "regexp"

// Builtin returns the default vendor profile table. The table is pure data;
// callers validate it through NewRegistry at startup.
func Builtin() []*Profile {
	return []*Profile{
		{
			ID:   "cisco",
			Name: "Cisco",
			Keywords: []string{
				"cisco", "ios", "ios-xe", "nx-os", "catalyst", "nexus", "meraki",
				"eigrp", "hsrp", "etherchannel", "port security", "packet tracer",
				"netacad", "cisco press", "devnet", "router-on-a-stick", "vtp",
				"cdp", "dtp",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*(?:Router|Switch|R\d+|SW\d+)(?:\(config[^)]*\))?[>#]`),
				regexp.MustCompile(`(?m)^\s*show\s+(?:ip|ipv6|running-config|startup-config|interfaces?|vlan|cdp|spanning-tree)\b`),
				regexp.MustCompile(`(?m)^\s*(?:configure terminal|conf t|enable|copy running-config)\b`),
				regexp.MustCompile(`(?m)^\s*(?:interface|router)\s+(?:GigabitEthernet|FastEthernet|Loopback|Vlan|ospf|eigrp|bgp)\b`),
			},
			Certifications: []string{"CCNA", "CCNP", "CCIE", "CCST", "DevNet Associate", "DevNet Professional"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"Keep IOS command syntax exactly as written, including prompts and abbreviations.",
					"Preserve interface names (GigabitEthernet0/1, Vlan10) character for character.",
					"Never substitute commands from other network operating systems.",
				},
			},
		},
		{
			ID:   "juniper",
			Name: "Juniper",
			Keywords: []string{
				"juniper", "junos", "srx", "vsrx", "mx series", "ex series", "qfx",
				"commit confirmed", "set system", "routing-instances", "junos os",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*(?:set|delete|show|edit)\s+(?:system|interfaces|protocols|security|routing-options)\b`),
				regexp.MustCompile(`(?m)^\s*commit(?:\s+(?:confirmed|check|and-quit))?\s*$`),
				regexp.MustCompile(`(?m)^\s*\w+@[\w.-]+[>#%]`),
			},
			Certifications: []string{"JNCIA", "JNCIS", "JNCIP", "JNCIE"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"Keep Junos set-style and hierarchical configuration exactly as written.",
					"Distinguish operational mode (>) from configuration mode (#) prompts.",
				},
			},
		},
		{
			ID:   "arista",
			Name: "Arista",
			Keywords: []string{
				"arista", "cloudvision", "veos", "mlag", "leaf-spine", "arista eos",
				"evpn", "vxlan",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*(?:leaf|spine|switch)[\w-]*[>#]`),
				regexp.MustCompile(`(?m)^\s*show\s+(?:mlag|vxlan|bgp evpn|lldp neighbors)\b`),
			},
			Certifications: []string{"ACE"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"EOS syntax resembles IOS but is not identical; never borrow Cisco-only keywords.",
				},
			},
		},
		{
			ID:   "paloalto",
			Name: "Palo Alto Networks",
			Keywords: []string{
				"palo alto", "pan-os", "panorama", "globalprotect", "wildfire",
				"app-id", "user-id", "content-id", "security profile",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*(?:set|show)\s+(?:deviceconfig|rulebase|zone|address|network)\b`),
				regexp.MustCompile(`(?m)^\s*request\s+(?:restart|license|system)\b`),
			},
			Certifications: []string{"PCCET", "PCNSA", "PCNSE"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"Keep PAN-OS object and rule names exactly as written, including case.",
				},
			},
		},
		{
			ID:   "fortinet",
			Name: "Fortinet",
			Keywords: []string{
				"fortinet", "fortigate", "fortios", "fortianalyzer", "fortimanager",
				"fortiguard", "security fabric", "sd-wan",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*config\s+(?:system|firewall|vpn|router)\b`),
				regexp.MustCompile(`(?m)^\s*(?:get|diagnose|execute)\s+(?:system|router|vpn)\b`),
				regexp.MustCompile(`(?m)^\s*(?:edit\s+\S+|next|end)\s*$`),
			},
			Certifications: []string{"FCF", "FCA", "FCP", "FCSS", "FCX", "NSE 4", "NSE 7"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"FortiOS config blocks use config/edit/set/next/end nesting; keep the nesting intact.",
				},
			},
		},
		{
			ID:   "f5",
			Name: "F5 Networks",
			Keywords: []string{
				"f5 networks", "big-ip", "tmos", "irule", "irules", "ltm", "gtm",
				"virtual server", "pool member", "tmsh",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*tmsh\b`),
				regexp.MustCompile(`(?m)^\s*(?:create|modify|list|delete)\s+(?:ltm|gtm|sys)\b`),
				regexp.MustCompile(`(?m)^\(tmos\)#`),
			},
			Certifications: []string{"F5-CA", "F5-CTS", "F5-CSE"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"iRule snippets are Tcl; keep braces and event names exactly as written.",
				},
			},
		},
		{
			ID:   "vmware",
			Name: "VMware",
			Keywords: []string{
				"vmware", "vsphere", "esxi", "vcenter", "vsan", "vmotion",
				"nsx", "vrealize", "distributed switch",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*esxcli\s+\w+`),
				regexp.MustCompile(`(?m)^\s*(?:Get|Set|New|Remove)-VM\w*\b`),
				regexp.MustCompile(`(?m)^\s*vim-cmd\b`),
			},
			Certifications: []string{"VCTA", "VCP", "VCAP", "VCDX"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"PowerCLI cmdlet names are case-preserving; keep them as written.",
				},
			},
		},
		{
			ID:   "comptia",
			Name: "CompTIA",
			Keywords: []string{
				"comptia", "exam objectives", "performance-based question", "pbq",
				"acronym list", "sy0-", "n10-", "220-", "xk0-", "cs0-",
			},
			CLIPatterns: nil,
			Certifications: []string{
				"A+", "Network+", "Security+", "Linux+", "Cloud+", "Server+",
				"CySA+", "PenTest+", "CASP+", "Data+",
			},
			Rules: AIRules{
				PreserveCLICommands:    false,
				PreserveConfigBlocks:   false,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: true,
				TechnicalDepth:         DepthIntermediate,
				SpecialInstructions: []string{
					"Frame content around exam objectives and domain percentages when present.",
					"Vendor-neutral wording; do not rewrite generic terms into vendor-specific ones.",
				},
			},
		},
		{
			ID:   "aws",
			Name: "Amazon Web Services",
			Keywords: []string{
				"aws", "amazon web services", "ec2", "s3", "lambda", "dynamodb",
				"cloudformation", "cloudwatch", "iam", "vpc", "route 53", "eks",
				"ecs", "rds", "well-architected",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*\$?\s*aws\s+[a-z0-9-]+\s+[a-z-]+`),
			},
			Certifications: []string{
				"AWS Certified Solutions Architect", "AWS Certified Developer",
				"AWS Certified SysOps Administrator", "AWS Certified Cloud Practitioner",
				"SAA-C03", "DVA-C02", "CLF-C02",
			},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"Keep AWS CLI commands, ARNs, and resource names exactly as written.",
					"Service limits and pricing figures must come from the document only.",
				},
			},
		},
		{
			ID:   "azure",
			Name: "Microsoft Azure",
			Keywords: []string{
				"azure", "microsoft azure", "entra", "active directory", "azure ad",
				"resource group", "arm template", "bicep", "intune", "microsoft 365",
				"azure devops",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*az\s+[a-z]+(?:\s+[a-z-]+)+`),
				regexp.MustCompile(`(?m)^\s*(?:Get|Set|New|Remove)-Az\w+\b`),
			},
			Certifications: []string{"AZ-900", "AZ-104", "AZ-204", "AZ-305", "AZ-500", "SC-900", "MS-900"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthIntermediate,
				SpecialInstructions: []string{
					"Keep az CLI and PowerShell Az cmdlet syntax exactly as written.",
				},
			},
		},
		{
			ID:   "gcp",
			Name: "Google Cloud",
			Keywords: []string{
				"google cloud", "gcp", "gke", "bigquery", "cloud run", "compute engine",
				"cloud storage", "pub/sub", "firestore", "cloud functions", "anthos",
				"vertex ai",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*gcloud\s+[a-z]+(?:\s+[a-z-]+)+`),
				regexp.MustCompile(`(?m)^\s*(?:gsutil|bq)\s+\w+`),
			},
			Certifications: []string{
				"Associate Cloud Engineer", "Professional Cloud Architect",
				"Professional Data Engineer", "Professional Cloud Network Engineer",
			},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"Keep gcloud command groups and flags exactly as written.",
				},
			},
		},
		{
			ID:   "redhat",
			Name: "Red Hat",
			Keywords: []string{
				"red hat", "rhel", "enterprise linux", "ansible", "openshift",
				"podman", "selinux", "systemd", "satellite", "dnf install",
			},
			CLIPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^\s*(?:sudo\s+)?(?:dnf|yum|rpm|systemctl|firewall-cmd|semanage|podman|oc)\s+\S+`),
				regexp.MustCompile(`(?m)^\[\w+@[\w.-]+\s+[^\]]*\][#$]`),
			},
			Certifications: []string{"RHCSA", "RHCE", "RHCA", "EX200", "EX294"},
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthAdvanced,
				SpecialInstructions: []string{
					"Shell commands, unit names, and SELinux contexts stay exactly as written.",
				},
			},
		},
		{
			ID:             GenericID,
			Name:           "Generic",
			Keywords:       nil,
			CLIPatterns:    nil,
			Certifications: nil,
			Rules: AIRules{
				PreserveCLICommands:    true,
				PreserveConfigBlocks:   true,
				UseStrictGrounding:     true,
				AllowExternalKnowledge: false,
				TechnicalDepth:         DepthIntermediate,
				SpecialInstructions:    nil,
			},
		},
	}
}
