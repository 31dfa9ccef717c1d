package project

// task is one unit of work in the resolver's explicit work queue: a node
// still to be classified as a group or a unit, carrying everything
// accumulated from its ancestors. Implemented as an explicit queue rather
// than native recursion so a pathologically deep or wide project file
// resolves with bounded stack depth.
type task struct {
	data         map[string]interface{}
	name         string
	incomingOpts Options
	vars         map[string]string
	sourcePath   string
	activePath   map[string]bool
}

// Resolve reads rootPath and every project file it transitively includes,
// producing a flat Registry of resolved units plus their required/optional
// and declared group memberships. ambient is the pre-layered ambient
// variable set (PROJECT_DIR, SESSION_UUID, process environment, ...)
// every `{NAME}` substitution starts from.
func Resolve(rootPath string, ambient map[string]string) (*Registry, error) {
	reg := newRegistry()

	queue := []task{{
		sourcePath:   rootPath,
		incomingOpts: Options{},
		vars:         ambient,
		activePath:   map[string]bool{rootPath: true},
	}}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		data := t.data
		if data == nil {
			loaded, err := readDescriptor(t.sourcePath)
			if err != nil {
				return nil, err
			}
			data = loaded
		}

		for {
			next, newPath, redirected, err := followControlfile(data, t.sourcePath)
			if err != nil {
				return nil, err
			}
			if !redirected {
				break
			}
			if t.activePath[newPath] {
				return nil, invalidDescriptor(newPath, "controlfile cycle")
			}
			active := cloneActivePath(t.activePath)
			active[newPath] = true
			data, t.sourcePath, t.activePath = next, newPath, active
		}

		if _, ok := data["services"]; !ok {
			name := t.name
			if name == "" {
				name = guessUnitName(data)
			}
			data = map[string]interface{}{
				"services": map[string]interface{}{
					name: data,
				},
			}
		}

		if listMembers, ok := data["services"].([]interface{}); ok {
			members := make([]string, 0, len(listMembers))
			for _, item := range listMembers {
				if name, ok := item.(string); ok {
					members = append(members, name)
				}
			}
			if t.name != "" {
				reg.addGroup(t.name, members)
			}
			continue
		}

		servicesRaw, _ := data["services"].(map[string]interface{})

		substituted, mergedVars := substituteAndExtractVars(data, t.vars)
		ownOptsRaw, _ := substituted["options"].(map[string]interface{})
		mergedOpts := mergeOptions(t.incomingOpts, parseOptions(ownOptsRaw))

		var members []string
		for childName, childRaw := range servicesRaw {
			childData, ok := childRaw.(map[string]interface{})
			if !ok {
				continue
			}
			members = append(members, childName)

			if _, isGroup := childData["services"]; isGroup {
				queue = append(queue, task{
					data:         childData,
					name:         childName,
					incomingOpts: mergedOpts,
					vars:         mergedVars,
					sourcePath:   t.sourcePath,
					activePath:   t.activePath,
				})
				continue
			}

			childSubstituted, childVars := substituteAndExtractVars(childData, mergedVars)
			childOptsRaw, _ := childSubstituted["options"].(map[string]interface{})
			childOpts := mergeOptions(mergedOpts, parseOptions(childOptsRaw))

			svc, err := buildUnit(childName, childSubstituted, childOpts, t.sourcePath)
			if err != nil {
				return nil, err
			}
			_ = childVars
			reg.addUnit(svc)
		}

		if t.name != "" {
			reg.addGroup(t.name, members)
		}
	}

	return reg, nil
}

func cloneActivePath(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
