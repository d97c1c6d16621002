// Package settings owns the storefront configuration document. The
// defaults double as the schema of record: stored documents are merged
// over them on read, so settings saved by an older build pick up newly
// introduced fields without migration.
package settings

// PaymentMethods toggles the payment options shown at checkout.
type PaymentMethods struct {
	Credit bool `json:"credit"`
	Debit  bool `json:"debit"`
	Pix    bool `json:"pix"`
	Cash   bool `json:"cash"`
	Other  bool `json:"other"`
}

// BannerConfig styles the storefront hero banner.
type BannerConfig struct {
	ImageURL          string `json:"imageUrl"`
	Title             string `json:"title"`
	Subtitle          string `json:"subtitle"`
	ShowExploreButton bool   `json:"showExploreButton"`
	TextColor         string `json:"textColor"`
	ButtonColor       string `json:"buttonColor"`
}

// HeaderLink is one custom navigation entry.
type HeaderLink struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// HeaderLinks toggles the built-in category links and carries custom ones.
type HeaderLinks struct {
	Novidades   bool         `json:"novidades"`
	Masculino   bool         `json:"masculino"`
	Feminino    bool         `json:"feminino"`
	Kids        bool         `json:"kids"`
	Calcados    bool         `json:"calcados"`
	Acessorios  bool         `json:"acessorios"`
	Off         bool         `json:"off"`
	CustomLinks []HeaderLink `json:"customLinks"`
}

// CategoryHighlight is one tile in the highlighted categories section.
type CategoryHighlight struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Link  string `json:"link"`
}

// CategoryHighlights configures the highlighted categories section.
type CategoryHighlights struct {
	Enabled    bool                `json:"enabled"`
	Title      string              `json:"title"`
	Categories []CategoryHighlight `json:"categories"`
}

// AboutUs configures the about section.
type AboutUs struct {
	Enabled bool     `json:"enabled"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

// SocialChannel is one social media link.
type SocialChannel struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
}

// SocialMedia configures the social links block.
type SocialMedia struct {
	Enabled   bool          `json:"enabled"`
	Instagram SocialChannel `json:"instagram"`
	Facebook  SocialChannel `json:"facebook"`
	Whatsapp  SocialChannel `json:"whatsapp"`
	Tiktok    SocialChannel `json:"tiktok"`
	Twitter   SocialChannel `json:"twitter"`
	Website   SocialChannel `json:"website"`
}

// Settings is the full storefront configuration.
type Settings struct {
	StoreName              string             `json:"storeName"`
	StoreNameFont          string             `json:"storeNameFont"`
	StoreNameColor         string             `json:"storeNameColor"`
	StoreNameSize          string             `json:"storeNameSize"`
	PageTitle              string             `json:"pageTitle"`
	PageTitleFont          string             `json:"pageTitleFont"`
	PageTitleColor         string             `json:"pageTitleColor"`
	PageTitleSize          string             `json:"pageTitleSize"`
	PageSubtitle           string             `json:"pageSubtitle"`
	LogoImage              string             `json:"logoImage"`
	MapLink                string             `json:"mapLink"`
	ShareImage             string             `json:"shareImage"`
	FooterText             string             `json:"footerText"`
	DeliveryInfo           string             `json:"deliveryInfo"`
	ShowPaymentMethods     bool               `json:"showPaymentMethods"`
	StorePhone             string             `json:"storePhone"`
	ActivePaymentMethods   PaymentMethods     `json:"activePaymentMethods"`
	EnableWhatsappCheckout bool               `json:"enableWhatsappCheckout"`
	WhatsappNumber         string             `json:"whatsappNumber"`
	WhatsappMessage        string             `json:"whatsappMessage"`
	BannerConfig           BannerConfig       `json:"bannerConfig"`
	HeaderLinks            HeaderLinks        `json:"headerLinks"`
	HeaderColor            string             `json:"headerColor"`
	HeaderLinkColor        string             `json:"headerLinkColor"`
	CategoryHighlights     CategoryHighlights `json:"categoryHighlights"`
	AboutUs                AboutUs            `json:"aboutUs"`
	SocialMedia            SocialMedia        `json:"socialMedia"`
}

// Defaults returns the out-of-the-box storefront configuration.
func Defaults() Settings {
	return Settings{
		StoreName:          "TACO",
		StoreNameFont:      "Arial, sans-serif",
		StoreNameColor:     "#000000",
		StoreNameSize:      "24px",
		PageTitle:          "Bem-vindo à TACO",
		PageTitleFont:      "Arial, sans-serif",
		PageTitleColor:     "#000000",
		PageTitleSize:      "24px",
		PageSubtitle:       "Av. Paulista, 1000 - São Paulo, SP | Tel: (11) 9999-9999",
		MapLink:            "https://maps.google.com/?q=Av.+Paulista,+1000,+São+Paulo",
		FooterText:         "© 2025 TACO. Todos os direitos reservados.",
		DeliveryInfo:       "Frete grátis para compras acima de R$ 199,90. Consulte o prazo estimado de entrega informando seu CEP.",
		ShowPaymentMethods: true,
		StorePhone:         "(11) 9999-9999",
		ActivePaymentMethods: PaymentMethods{
			Credit: true,
			Debit:  true,
			Pix:    true,
			Cash:   true,
			Other:  true,
		},
		BannerConfig: BannerConfig{
			ImageURL:          "https://images.unsplash.com/photo-1445205170230-053b83016050?w=1600&auto=format&fit=crop",
			Title:             "Nova Coleção 2024",
			Subtitle:          "Descubra as últimas tendências em roupas e calçados para todas as estações",
			ShowExploreButton: true,
			TextColor:         "#FFFFFF",
			ButtonColor:       "#EF4444",
		},
		HeaderLinks: HeaderLinks{
			Novidades:   true,
			Masculino:   true,
			Feminino:    true,
			Kids:        true,
			Calcados:    true,
			Acessorios:  true,
			Off:         true,
			CustomLinks: []HeaderLink{},
		},
		HeaderColor:     "#FFFFFF",
		HeaderLinkColor: "#000000",
		CategoryHighlights: CategoryHighlights{
			Enabled: true,
			Title:   "Categorias em Destaque",
			Categories: []CategoryHighlight{
				{
					Name:  "Feminino",
					Image: "https://images.unsplash.com/photo-1572804013309-59a88b7e92f1?w=800&auto=format&fit=crop",
					Link:  "/products/feminino",
				},
				{
					Name:  "Masculino",
					Image: "https://images.unsplash.com/photo-1617196035154-1e7e6e28b0db?w=800&auto=format&fit=crop",
					Link:  "/products/masculino",
				},
				{
					Name:  "Kids",
					Image: "https://images.unsplash.com/photo-1519238359922-989348752efb?w=800&auto=format&fit=crop",
					Link:  "/products/kids",
				},
				{
					Name:  "Acessórios",
					Image: "https://images.unsplash.com/photo-1625591341337-13156895c604?w=800&auto=format&fit=crop",
					Link:  "/products/acessórios",
				},
			},
		},
		AboutUs: AboutUs{
			Title:   "Quem Somos",
			Content: "Nossa loja tem como missão oferecer produtos de alta qualidade a preços acessíveis. Fundada em 2010, crescemos com o compromisso de proporcionar a melhor experiência de compra para nossos clientes.\n\nTrabalhos com as melhores marcas e estamos sempre atentos às tendências da moda para trazer o que há de mais moderno para você.\n\nNosso time é formado por profissionais apaixonados por moda e dedicados a garantir sua satisfação.",
			Images:  []string{},
		},
		SocialMedia: SocialMedia{
			Enabled:   true,
			Instagram: SocialChannel{Enabled: true, URL: "https://instagram.com/tacoficial"},
			Facebook:  SocialChannel{Enabled: true, URL: "https://facebook.com/tacoficial"},
			Whatsapp:  SocialChannel{Enabled: true, URL: "https://wa.me/5521999999999"},
			Tiktok:    SocialChannel{Enabled: true, URL: "https://tiktok.com/@tacoficial"},
			Twitter:   SocialChannel{Enabled: true, URL: "https://twitter.com/tacoficial"},
			Website:   SocialChannel{Enabled: true, URL: "https://taco.com.br"},
		},
	}
}
