package notification

import (
	"strings"

	"golang.org/x/text/language"
)

// Copy textos localizados del correo de cierre.
type Copy struct {
	Title                 string
	Intro                 string
	TimelineTitle         string
	ProcessStartedLabel   string
	OutcomeGeneratedLabel string
	AcceptedPartnersTitle string
	SelectionsTitle       string
	CommentsTitle         string
	DashboardLabel        string
	NoComments            string
	NoAcceptedPartners    string
	SubjectPrefix         string
	TextIntro             string
}

const subjectPrefix = "Outkomia Partnership Mapping blueprint"

var closeCopy = map[string]Copy{
	"en": {
		Title:                 "Partnership Mapping closed",
		Intro:                 "The blueprint is now closed. Below are the final selections and partner comments.",
		TimelineTitle:         "Timeline",
		ProcessStartedLabel:   "Process started",
		OutcomeGeneratedLabel: "Outcome generated",
		AcceptedPartnersTitle: "Partners who accepted",
		SelectionsTitle:       "Final selections",
		CommentsTitle:         "Comments",
		DashboardLabel:        "Dashboard",
		NoComments:            "(No comments)",
		NoAcceptedPartners:    "(No partners)",
		SubjectPrefix:         subjectPrefix,
		TextIntro:             "The Partnership Mapping blueprint has been closed.",
	},
	"fi": {
		Title:                 "Partnership Mapping suljettu",
		Intro:                 "Blueprint on nyt suljettu. Alla ovat lopulliset valinnat ja osallistujien kommentit.",
		TimelineTitle:         "Aikajana",
		ProcessStartedLabel:   "Prosessi aloitettu",
		OutcomeGeneratedLabel: "Tulos muodostettu",
		AcceptedPartnersTitle: "Hyväksyneet kumppanit",
		SelectionsTitle:       "Lopulliset valinnat",
		CommentsTitle:         "Kommentit",
		DashboardLabel:        "Dashboard",
		NoComments:            "(Ei kommentteja)",
		NoAcceptedPartners:    "(Ei kumppaneita)",
		SubjectPrefix:         subjectPrefix,
		TextIntro:             "Partnership Mapping blueprint on suljettu.",
	},
	"sv": {
		Title:                 "Partnership Mapping stängt",
		Intro:                 "Blueprinten är nu stängd. Nedan finns de slutliga valen och partnernas kommentarer.",
		TimelineTitle:         "Tidslinje",
		ProcessStartedLabel:   "Processen startade",
		OutcomeGeneratedLabel: "Resultat genererat",
		AcceptedPartnersTitle: "Partners som godkände",
		SelectionsTitle:       "Slutliga val",
		CommentsTitle:         "Kommentarer",
		DashboardLabel:        "Dashboard",
		NoComments:            "(Inga kommentarer)",
		NoAcceptedPartners:    "(Inga partners)",
		SubjectPrefix:         subjectPrefix,
		TextIntro:             "Partnership Mapping blueprinten har stängts.",
	},
	"el": {
		Title:                 "Το Partnership Mapping έκλεισε",
		Intro:                 "Το blueprint έχει πλέον κλείσει. Παρακάτω είναι οι τελικές επιλογές και τα σχόλια των συμμετεχόντων.",
		TimelineTitle:         "Χρονολόγιο",
		ProcessStartedLabel:   "Έναρξη διαδικασίας",
		OutcomeGeneratedLabel: "Δημιουργία αποτελέσματος",
		AcceptedPartnersTitle: "Συνεργάτες που αποδέχτηκαν",
		SelectionsTitle:       "Τελικές επιλογές",
		CommentsTitle:         "Σχόλια",
		DashboardLabel:        "Dashboard",
		NoComments:            "(Χωρίς σχόλια)",
		NoAcceptedPartners:    "(Χωρίς συνεργάτες)",
		SubjectPrefix:         subjectPrefix,
		TextIntro:             "Το Partnership Mapping blueprint έχει κλείσει.",
	},
	"de": {
		Title:                 "Partnership Mapping abgeschlossen",
		Intro:                 "Der Blueprint ist jetzt abgeschlossen. Unten stehen die finalen Auswahlen und Kommentare der Partner.",
		TimelineTitle:         "Zeitplan",
		ProcessStartedLabel:   "Prozess gestartet",
		OutcomeGeneratedLabel: "Ergebnis erstellt",
		AcceptedPartnersTitle: "Partner, die zugestimmt haben",
		SelectionsTitle:       "Finale Auswahl",
		CommentsTitle:         "Kommentare",
		DashboardLabel:        "Dashboard",
		NoComments:            "(Keine Kommentare)",
		NoAcceptedPartners:    "(Keine Partner)",
		SubjectPrefix:         subjectPrefix,
		TextIntro:             "Der Partnership Mapping Blueprint wurde abgeschlossen.",
	},
	"fr": {
		Title:                 "Partnership Mapping clôturé",
		Intro:                 "Le blueprint est maintenant clôturé. Ci-dessous, les choix finaux et les commentaires des partenaires.",
		TimelineTitle:         "Chronologie",
		ProcessStartedLabel:   "Début du processus",
		OutcomeGeneratedLabel: "Résultat généré",
		AcceptedPartnersTitle: "Partenaires ayant accepté",
		SelectionsTitle:       "Choix finaux",
		CommentsTitle:         "Commentaires",
		DashboardLabel:        "Dashboard",
		NoComments:            "(Aucun commentaire)",
		NoAcceptedPartners:    "(Aucun partenaire)",
		SubjectPrefix:         subjectPrefix,
		TextIntro:             "Le blueprint Partnership Mapping a été clôturé.",
	},
	"es": {
		Title:                 "Partnership Mapping cerrado",
		Intro:                 "El blueprint está cerrado. A continuación están las selecciones finales y los comentarios de los socios.",
		TimelineTitle:         "Cronología",
		ProcessStartedLabel:   "Inicio del proceso",
		OutcomeGeneratedLabel: "Resultado generado",
		AcceptedPartnersTitle: "Socios que aceptaron",
		SelectionsTitle:       "Selecciones finales",
		CommentsTitle:         "Comentarios",
		DashboardLabel:        "Dashboard",
		NoComments:            "(Sin comentarios)",
		NoAcceptedPartners:    "(Sin socios)",
		SubjectPrefix:         subjectPrefix,
		TextIntro:             "El blueprint de Partnership Mapping ha sido cerrado.",
	},
}

// El primero es el idioma por defecto del matcher.
var supported = []language.Tag{
	language.English,
	language.Finnish,
	language.Swedish,
	language.Greek,
	language.German,
	language.French,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

// ResolveLanguage convierte la preferencia del perfil (ej. "fi", "sv-FI", "de-AT")
// en uno de los idiomas soportados; sin coincidencia devuelve "en".
func ResolveLanguage(pref string) string {
	pref = strings.TrimSpace(pref)
	if pref == "" {
		return "en"
	}
	tag, err := language.Parse(pref)
	if err != nil {
		return "en"
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "en"
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// CopyFor textos de cierre para la preferencia dada.
func CopyFor(pref string) Copy {
	if c, ok := closeCopy[ResolveLanguage(pref)]; ok {
		return c
	}
	return closeCopy["en"]
}
