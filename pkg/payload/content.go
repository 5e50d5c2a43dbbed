package payload

import "github.com/qrforge/qrforge/pkg/validator"

// Content is the typed form of a QR code's input: one variant per ContentType,
// each carrying only the fields its wire format reads. The interface is sealed;
// the variants below are the only implementations.
type Content interface {
	Type() ContentType
	payload() string
	rules() []validator.Rule
}

// URL encodes a web address verbatim.
type URL struct {
	URL string `json:"url"`
}

// WiFi encodes network credentials. Empty Security means WPA2.
type WiFi struct {
	SSID     string `json:"ssid"`
	Password string `json:"password,omitempty"`
	Security string `json:"security,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// VCard encodes a contact as a vCard 3.0 block.
type VCard struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Organization string `json:"organization,omitempty"`
	Title        string `json:"title,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
	Address      string `json:"address,omitempty"`
}

// SMS encodes a prefilled text message.
type SMS struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message,omitempty"`
}

// Email encodes a mailto link.
type Email struct {
	Address string `json:"emailAddress"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Text encodes free text verbatim.
type Text struct {
	Text string `json:"text"`
}

// Phone encodes a tel: link.
type Phone struct {
	PhoneNumber string `json:"phoneNumber"`
}

// WhatsApp encodes a wa.me chat link.
type WhatsApp struct {
	Number  string `json:"whatsappNumber"`
	Message string `json:"whatsappMessage,omitempty"`
}

// Location encodes a geo: URI. Coordinates are pointers so that 0 is a
// valid, present value.
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Name      string   `json:"locationName,omitempty"`
}

func (URL) Type() ContentType      { return TypeURL }
func (WiFi) Type() ContentType     { return TypeWiFi }
func (VCard) Type() ContentType    { return TypeVCard }
func (SMS) Type() ContentType      { return TypeSMS }
func (Email) Type() ContentType    { return TypeEmail }
func (Text) Type() ContentType     { return TypeText }
func (Phone) Type() ContentType    { return TypePhone }
func (WhatsApp) Type() ContentType { return TypeWhatsApp }
func (Location) Type() ContentType { return TypeLocation }

// Fields is the loosely typed input bag as it arrives from forms and JSON.
// It holds the union of every variant's fields; Content projects it onto
// the variant for a given type and drops the rest.
type Fields struct {
	URL string `json:"url,omitempty" bson:"url,omitempty"`

	SSID     string `json:"ssid,omitempty" bson:"ssid,omitempty"`
	Password string `json:"password,omitempty" bson:"password,omitempty"`
	Security string `json:"security,omitempty" bson:"security,omitempty"`
	Hidden   *bool  `json:"hidden,omitempty" bson:"hidden,omitempty"`

	FirstName    string `json:"firstName,omitempty" bson:"first_name,omitempty"`
	LastName     string `json:"lastName,omitempty" bson:"last_name,omitempty"`
	Organization string `json:"organization,omitempty" bson:"organization,omitempty"`
	Title        string `json:"title,omitempty" bson:"title,omitempty"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
	Website      string `json:"website,omitempty" bson:"website,omitempty"`
	Address      string `json:"address,omitempty" bson:"address,omitempty"`

	PhoneNumber string `json:"phoneNumber,omitempty" bson:"phone_number,omitempty"`
	Message     string `json:"message,omitempty" bson:"message,omitempty"`

	EmailAddress string `json:"emailAddress,omitempty" bson:"email_address,omitempty"`
	Subject      string `json:"subject,omitempty" bson:"subject,omitempty"`
	Body         string `json:"body,omitempty" bson:"body,omitempty"`

	WhatsAppNumber  string `json:"whatsappNumber,omitempty" bson:"whatsapp_number,omitempty"`
	WhatsAppMessage string `json:"whatsappMessage,omitempty" bson:"whatsapp_message,omitempty"`

	Latitude     *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
	LocationName string   `json:"locationName,omitempty" bson:"location_name,omitempty"`

	Text string `json:"text,omitempty" bson:"text,omitempty"`
}

// Content returns the variant of t populated from f.
// It returns ErrUnknownType for types outside the taxonomy.
func (f Fields) Content(t ContentType) (Content, error) {
	switch t {
	case TypeURL:
		return URL{URL: f.URL}, nil
	case TypeWiFi:
		w := WiFi{SSID: f.SSID, Password: f.Password, Security: f.Security}
		if f.Hidden != nil {
			w.Hidden = *f.Hidden
		}
		return w, nil
	case TypeVCard:
		return VCard{
			FirstName:    f.FirstName,
			LastName:     f.LastName,
			Organization: f.Organization,
			Title:        f.Title,
			Phone:        f.Phone,
			Email:        f.Email,
			Website:      f.Website,
			Address:      f.Address,
		}, nil
	case TypeSMS:
		return SMS{PhoneNumber: f.PhoneNumber, Message: f.Message}, nil
	case TypeEmail:
		return Email{Address: f.EmailAddress, Subject: f.Subject, Body: f.Body}, nil
	case TypeText:
		return Text{Text: f.Text}, nil
	case TypePhone:
		return Phone{PhoneNumber: f.PhoneNumber}, nil
	case TypeWhatsApp:
		return WhatsApp{Number: f.WhatsAppNumber, Message: f.WhatsAppMessage}, nil
	case TypeLocation:
		return Location{Latitude: f.Latitude, Longitude: f.Longitude, Name: f.LocationName}, nil
	default:
		return nil, ErrUnknownType
	}
}

// Float returns a pointer to v, for building Location values and Fields.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
