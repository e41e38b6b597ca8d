package router

import "time"

// MenuStep is one transition in the admin UI's menu hierarchy: a cascade of
// fixed identifiers tried first, then label texts for the text matcher.
type MenuStep struct {
	Name      string
	Selectors []string
	Texts     []string
}

// Profile holds every selector and label table for one firmware family.
// It is fixed configuration injected at construction, never mutated at
// runtime.
type Profile struct {
	LoginUserSelectors   []string
	LoginPassSelectors   []string
	LoginButtonSelectors []string
	LoginButtonTexts     []string

	MenuSteps []MenuStep

	FramePatterns       []string
	FrameTitleSelectors []string
	FrameTitleTexts     []string

	ModeSelectors    []string
	ModeManualValues []string
	ModeTexts        []string

	DNSPrimarySelectors    []string
	DNSSecondarySelectors  []string
	DNSPrimaryLabelTexts   []string
	DNSSecondaryLabelTexts []string

	ApplySelectors []string
	ApplyTexts     []string
	ApplyGlobals   []string

	SettleDelay       time.Duration
	TitleWaitAttempts int
	TitleWaitDelay    time.Duration
	VerifyAttempts    int
	VerifyDelay       time.Duration
}

// DefaultProfile covers the one firmware family this tool targets, with the
// fallback breadth accumulated from field use. Selector order is priority
// order: first hit wins.
func DefaultProfile() Profile {
	return Profile{
		LoginUserSelectors: []string{
			"#username",
			"input[name='username']",
			"input[name*='user' i]",
			"input[type='text']",
		},
		LoginPassSelectors: []string{
			"#password",
			"input[name='password']",
			"input[name*='pass' i]",
			"input[type='password']",
		},
		LoginButtonSelectors: []string{
			"#loginBtn",
			"input[type='submit']",
			"button[type='submit']",
		},
		LoginButtonTexts: []string{
			"Login", "Log In", "Sign in", "Entrar", "Acceder", "Iniciar",
		},

		MenuSteps: []MenuStep{
			{
				Name: "top menu",
				Selectors: []string{
					"#menu_network", "#mainMenu_network", "a[href*='network' i]",
				},
				Texts: []string{"Network", "Red", "Network Settings"},
			},
			{
				Name: "sub menu",
				Selectors: []string{
					"#submenu_lan", "a[href*='lan' i]",
				},
				Texts: []string{"LAN", "LAN Setup", "Red local"},
			},
			{
				Name: "leaf page",
				Selectors: []string{
					"#submenu_dhcp", "a[href*='dhcp' i]",
				},
				Texts: []string{"DHCP Server", "DHCP", "Servidor DHCP"},
			},
		},

		FramePatterns: []string{
			"iframe#contentFrame",
			"iframe#mainFrame",
			"iframe[src*='dhcp' i]",
			"iframe[src*='main' i]",
			"iframe",
		},
		FrameTitleSelectors: []string{
			"h1", "h2", ".page-title", "#pageTitle", "td.title",
		},
		FrameTitleTexts: []string{"DHCP", "DNS"},

		ModeSelectors: []string{
			"#dnsMode",
			"select[name*='dnsmode' i]",
			"select[id*='dns' i]",
			"input[type='radio'][name*='dns' i][value*='manual' i]",
		},
		ModeManualValues: []string{"manual", "static", "1"},
		ModeTexts: []string{
			"Use These DNS Servers", "Manual", "Usar estos servidores DNS",
		},

		DNSPrimarySelectors: []string{
			"#dnsMainPri",
			"input[name='dnsserver1']",
			"input[name*='dns1' i]",
			"input[id*='dns1' i]",
			"input[name*='dnspri' i]",
			"input[id*='dnspri' i]",
		},
		DNSSecondarySelectors: []string{
			"#dnsMainSec",
			"input[name='dnsserver2']",
			"input[name*='dns2' i]",
			"input[id*='dns2' i]",
			"input[name*='dnssec' i]",
			"input[id*='dnssec' i]",
		},
		DNSPrimaryLabelTexts: []string{
			"Primary DNS", "Preferred DNS", "DNS primario", "DNS preferido",
		},
		DNSSecondaryLabelTexts: []string{
			"Secondary DNS", "Alternate DNS", "DNS secundario", "DNS alternativo",
		},

		ApplySelectors: []string{
			"#saveBtn",
			"input[name='save']",
			"input[type='submit'][value*='apply' i]",
			"input[type='submit'][value*='save' i]",
			"button[type='submit']",
			"input[type='submit']",
		},
		ApplyTexts: []string{
			"Apply", "Save", "Guardar", "Aplicar", "Submit", "OK",
		},
		ApplyGlobals: []string{
			"ApplyCfg", "ApplyConfig", "doSave", "saveSettings", "applySettings", "to_submit",
		},

		SettleDelay:       1500 * time.Millisecond,
		TitleWaitAttempts: 8,
		TitleWaitDelay:    time.Second,
		VerifyAttempts:    5,
		VerifyDelay:       2 * time.Second,
	}
}
