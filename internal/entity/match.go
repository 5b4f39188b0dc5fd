package entity

// FindLeadIndex faz a busca linear da planilha: com e-mail informado o match é só por
// e-mail; o telefone (forma de LocalPhone) é usado apenas quando o e-mail vem vazio. Vence a
// primeira linha encontrada. Devolve -1 quando não acha.
func FindLeadIndex(leads []Lead, email, phone string) int {
	if e := NormalizeEmail(email); e != "" {
		for i := range leads {
			if NormalizeEmail(leads[i].Email) == e {
				return i
			}
		}
		return -1
	}

	p := LocalPhone(phone)
	if p == "" {
		return -1
	}
	for i := range leads {
		if LocalPhone(leads[i].Phone) == p {
			return i
		}
	}
	return -1
}

// PhoneSiblings devolve os índices de todas as linhas com o mesmo telefone (com ou sem DDI).
func PhoneSiblings(leads []Lead, phone string) []int {
	p := LocalPhone(phone)
	if p == "" {
		return nil
	}
	var out []int
	for i := range leads {
		if LocalPhone(leads[i].Phone) == p {
			out = append(out, i)
		}
	}
	return out
}
