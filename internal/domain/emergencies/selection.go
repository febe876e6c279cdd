package emergencies

// NextSelection decide qué registro queda "seleccionado" en la vista de
// la unidad cuando llega un snapshot nuevo:
//   - si el seleccionado anterior sigue en la lista, se mantiene (sticky)
//   - si desapareció (p.ej. finalizada) o no había selección, cae al
//     primer elemento
//   - lista vacía => sin selección
func NextSelection(prev string, list []Emergency) string {
	if len(list) == 0 {
		return ""
	}
	if prev != "" {
		for _, e := range list {
			if e.ID == prev {
				return prev
			}
		}
	}
	return list[0].ID
}
