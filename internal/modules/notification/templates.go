package notification

import (
	"fmt"
	"strings"
	"time"

	"imogest/internal/domain"
)

type message struct {
	Subject string
	Body    string
}

const meetingDateLayout = "02/01/2006 15:04"

func renderDeclarationReceived(d *domain.Declaration) message {
	return message{
		Subject: "Recebemos a sua declaração",
		Body: fmt.Sprintf(
			"Olá %s,\n\nA sua declaração de incidente (%s) foi recebida e será tratada em breve.\n\nReferência: %s\nImóvel: %s\nUrgência: %s\n\nObrigado.",
			d.Name, d.IssueType, d.ID, d.Property, d.Urgency,
		),
	}
}

func renderStatusChange(d *domain.Declaration, previous domain.Status) message {
	return message{
		Subject: fmt.Sprintf("Atualização da sua declaração: %s", d.Status),
		Body: fmt.Sprintf(
			"Olá %s,\n\nO estado da sua declaração %s mudou de \"%s\" para \"%s\".\n\nObrigado.",
			d.Name, d.ID, previous, d.Status,
		),
	}
}

// renderProviderAssignment includes the full reporter and incident
// detail so the provider does not need a follow-up query.
func renderProviderAssignment(d *domain.Declaration, p *domain.ServiceProvider) message {
	var b strings.Builder
	fmt.Fprintf(&b, "Nova intervenção atribuída a %s.\n\n", p.CompanyName)
	fmt.Fprintf(&b, "Referência: %s\n", d.ID)
	fmt.Fprintf(&b, "Inquilino: %s\n", d.Name)
	fmt.Fprintf(&b, "Email: %s\n", d.Email)
	if d.Phone != "" {
		fmt.Fprintf(&b, "Telefone: %s\n", d.Phone)
	}
	fmt.Fprintf(&b, "Imóvel: %s", d.Property)
	if d.City != "" {
		fmt.Fprintf(&b, ", %s", d.City)
	}
	if d.PostalCode != "" {
		fmt.Fprintf(&b, " (%s)", d.PostalCode)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tipo de problema: %s\n", d.IssueType)
	fmt.Fprintf(&b, "Urgência: %s\n", d.Urgency)
	if d.Description != "" {
		fmt.Fprintf(&b, "\nDescrição:\n%s\n", d.Description)
	}
	if len(d.MediaURLs) > 0 {
		fmt.Fprintf(&b, "\nFotos/vídeos:\n%s\n", strings.Join(d.MediaURLs, "\n"))
	}

	return message{
		Subject: fmt.Sprintf("Nova intervenção: %s (%s)", d.IssueType, d.Property),
		Body:    b.String(),
	}
}

func renderMeetingScheduled(d *domain.Declaration, p *domain.ServiceProvider, meetingDate time.Time) message {
	body := fmt.Sprintf(
		"Olá %s,\n\nO encontro de diagnóstico para a sua declaração %s foi agendado.\n\nData: %s\nTécnico: %s",
		d.Name, d.ID, meetingDate.Format(meetingDateLayout), p.CompanyName,
	)
	if p.Phone != "" {
		body += fmt.Sprintf("\nContacto: %s", p.Phone)
	}
	if p.Email != "" {
		body += fmt.Sprintf("\nEmail: %s", p.Email)
	}
	return message{
		Subject: "Encontro de diagnóstico agendado",
		Body:    body + "\n\nObrigado.",
	}
}

func renderQuoteApprovedProvider(d *domain.Declaration, p *domain.ServiceProvider) message {
	body := fmt.Sprintf(
		"O orçamento para a intervenção %s (%s) foi aprovado. Pode iniciar a reparação.",
		d.ID, d.Property,
	)
	if d.QuoteAmount != nil {
		body += fmt.Sprintf("\nMontante aprovado: %.2f €", *d.QuoteAmount)
	}
	return message{
		Subject: fmt.Sprintf("Orçamento aprovado: %s", d.ID),
		Body:    body,
	}
}

func renderQuoteApprovedTenant(d *domain.Declaration, p *domain.ServiceProvider) message {
	return message{
		Subject: "Reparação aprovada",
		Body: fmt.Sprintf(
			"Olá %s,\n\nO orçamento para a sua declaração %s foi aprovado. A empresa %s irá contactá-lo para iniciar a reparação.\n\nObrigado.",
			d.Name, d.ID, p.CompanyName,
		),
	}
}
