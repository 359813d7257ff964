package mail

import (
	"fmt"

	"github.com/alamal-ev/website/internal/locale"
)

// message is one localized email: subject plus plain-text and HTML bodies.
// Body templates take the recipient name (where present) and the link.
type message struct {
	subject string
	text    string
	html    string
}

var magicLinkTemplates = map[locale.Locale]message{
	locale.German: {
		subject: "Ihr Anmeldelink",
		text:    "Klicken Sie auf den folgenden Link, um sich anzumelden:\n\n%s\n\nDer Link ist 24 Stunden gültig und kann nur einmal verwendet werden.",
		html:    `<p>Klicken Sie auf den folgenden Link, um sich anzumelden:</p><p><a href="%s">Jetzt anmelden</a></p><p>Der Link ist 24 Stunden gültig und kann nur einmal verwendet werden.</p>`,
	},
	locale.French: {
		subject: "Votre lien de connexion",
		text:    "Cliquez sur le lien suivant pour vous connecter :\n\n%s\n\nLe lien est valable 24 heures et ne peut être utilisé qu'une seule fois.",
		html:    `<p>Cliquez sur le lien suivant pour vous connecter :</p><p><a href="%s">Se connecter</a></p><p>Le lien est valable 24 heures et ne peut être utilisé qu'une seule fois.</p>`,
	},
	locale.Arabic: {
		subject: "رابط تسجيل الدخول",
		text:    "انقر على الرابط التالي لتسجيل الدخول:\n\n%s\n\nالرابط صالح لمدة 24 ساعة ويمكن استخدامه مرة واحدة فقط.",
		html:    `<p>انقر على الرابط التالي لتسجيل الدخول:</p><p><a href="%s">تسجيل الدخول</a></p><p>الرابط صالح لمدة 24 ساعة ويمكن استخدامه مرة واحدة فقط.</p>`,
	},
}

var membershipTemplates = map[locale.Locale]message{
	locale.German: {
		subject: "Bitte bestätigen Sie Ihre Mitgliedschaft",
		text:    "Hallo %s,\n\nvielen Dank für Ihren Mitgliedsantrag. Bitte bestätigen Sie Ihre E-Mail-Adresse über den folgenden Link:\n\n%s",
		html:    `<p>Hallo %s,</p><p>vielen Dank für Ihren Mitgliedsantrag. Bitte bestätigen Sie Ihre E-Mail-Adresse über den folgenden Link:</p><p><a href="%s">Mitgliedschaft bestätigen</a></p>`,
	},
	locale.French: {
		subject: "Veuillez confirmer votre adhésion",
		text:    "Bonjour %s,\n\nmerci pour votre demande d'adhésion. Veuillez confirmer votre adresse e-mail via le lien suivant :\n\n%s",
		html:    `<p>Bonjour %s,</p><p>merci pour votre demande d'adhésion. Veuillez confirmer votre adresse e-mail via le lien suivant :</p><p><a href="%s">Confirmer l'adhésion</a></p>`,
	},
	locale.Arabic: {
		subject: "يرجى تأكيد عضويتك",
		text:    "مرحباً %s،\n\nشكراً لطلب العضوية. يرجى تأكيد بريدك الإلكتروني عبر الرابط التالي:\n\n%s",
		html:    `<p>مرحباً %s،</p><p>شكراً لطلب العضوية. يرجى تأكيد بريدك الإلكتروني عبر الرابط التالي:</p><p><a href="%s">تأكيد العضوية</a></p>`,
	},
}

var educationTemplates = map[locale.Locale]message{
	locale.German: {
		subject: "Bitte bestätigen Sie die Anmeldung zum Unterricht",
		text:    "Hallo %s,\n\nvielen Dank für die Anmeldung zum Unterricht. Bitte bestätigen Sie Ihre E-Mail-Adresse über den folgenden Link:\n\n%s",
		html:    `<p>Hallo %s,</p><p>vielen Dank für die Anmeldung zum Unterricht. Bitte bestätigen Sie Ihre E-Mail-Adresse über den folgenden Link:</p><p><a href="%s">Anmeldung bestätigen</a></p>`,
	},
	locale.French: {
		subject: "Veuillez confirmer l'inscription aux cours",
		text:    "Bonjour %s,\n\nmerci pour l'inscription aux cours. Veuillez confirmer votre adresse e-mail via le lien suivant :\n\n%s",
		html:    `<p>Bonjour %s,</p><p>merci pour l'inscription aux cours. Veuillez confirmer votre adresse e-mail via le lien suivant :</p><p><a href="%s">Confirmer l'inscription</a></p>`,
	},
	locale.Arabic: {
		subject: "يرجى تأكيد التسجيل في الدروس",
		text:    "مرحباً %s،\n\nشكراً للتسجيل في الدروس. يرجى تأكيد بريدك الإلكتروني عبر الرابط التالي:\n\n%s",
		html:    `<p>مرحباً %s،</p><p>شكراً للتسجيل في الدروس. يرجى تأكيد بريدك الإلكتروني عبر الرابط التالي:</p><p><a href="%s">تأكيد التسجيل</a></p>`,
	},
}

// render fills a template set for the locale, falling back to German for
// unknown locales.
func render(templates map[locale.Locale]message, loc locale.Locale, args ...any) (subject, text, html string) {
	m, ok := templates[loc]
	if !ok {
		m = templates[locale.Default]
	}
	return m.subject, fmt.Sprintf(m.text, args...), fmt.Sprintf(m.html, args...)
}
