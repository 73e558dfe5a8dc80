package ai

import (
	"fmt"
	"strings"
)

// BuildPersona renders the system instruction shared by the live providers.
func BuildPersona(assistantName string, products, services []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Você é %s, assistente de vendas da loja.\n", assistantName)
	fmt.Fprintf(&b, "Produtos disponíveis: %s.\n", listOrNone(products))
	fmt.Fprintf(&b, "Serviços disponíveis: %s.\n", listOrNone(services))
	b.WriteString("Responda somente sobre esses produtos e serviços.\n")
	b.WriteString("Se o cliente pedir algo que não está nas listas, diga claramente que não trabalhamos com esse item.\n")
	b.WriteString("Responda de forma direta e objetiva, sem fazer perguntas ao cliente.\n")
	b.WriteString("Escreva sempre em português do Brasil, com tom cordial e profissional.\n")
	b.WriteString("Não invente produtos, serviços, preços ou exemplos.")
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "nenhum"
	}
	return strings.Join(items, ", ")
}

// truncateRunes cuts s to at most n characters without splitting a multi-byte rune.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
