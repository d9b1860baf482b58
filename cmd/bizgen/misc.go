package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akeil/bizgen/pkg/api"
	"github.com/akeil/bizgen/pkg/store"
)

func doLogoList(e *env) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	logos, err := e.client.Logos(uid)
	if err != nil {
		return err
	}
	if len(logos) == 0 {
		fmt.Println("Found no logos.")
		return nil
	}
	for _, l := range logos {
		fmt.Printf("%5d  %v | %v (%v, %v)\n", l.ID, l.CreatedAt.Local().Format(dateFormat), l.Title, l.Style, l.PaletteName)
		fmt.Printf("       %v\n", e.client.ResolveAsset(l.ImageURL))
		if l.RemovedBgImageURL != "" {
			fmt.Printf("       %v\n", e.client.ResolveAsset(l.RemovedBgImageURL))
		}
	}
	return nil
}

func doLogoGenerate(e *env, r api.LogoRequest) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	r.UserID = uid

	fmt.Printf("%v generate logo for %q\n", ellipsis, r.Title)
	logo, err := e.client.GenerateLogo(r)
	if err != nil {
		return err
	}
	fmt.Printf("%v logo %d: %v\n", checkmark, logo.ID, e.client.ResolveAsset(logo.ImageURL))
	return nil
}

func doLogoRemoveBackground(e *env, id int) error {
	fmt.Printf("%v remove background from logo %d\n", ellipsis, id)
	u, err := e.client.RemoveLogoBackground(id)
	if err != nil {
		return err
	}
	fmt.Printf("%v %v\n", checkmark, e.client.ResolveAsset(u))
	return nil
}

func doLogoDelete(e *env, id int) error {
	err := e.client.DeleteLogo(id)
	if err != nil {
		return err
	}
	fmt.Printf("%v logo %d deleted\n", checkmark, id)
	return nil
}

func doVideoList(e *env) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	videos, err := e.client.Videos(uid)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		fmt.Println("Found no videos.")
		return nil
	}
	for _, v := range videos {
		fmt.Printf("%5d  %v | %v\n", v.ID, v.CreatedAt.Local().Format(dateFormat), v.Prompt)
		fmt.Printf("       %v\n", e.client.ResolveAsset(v.VideoURL))
	}
	return nil
}

func doVideoGenerate(e *env, prompt, aspect string, duration int, audio bool) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}

	r := api.NewVideoRequest(uid, prompt)
	if aspect != "" {
		r.AspectRatio = aspect
	}
	if duration > 0 {
		r.Duration = duration
	}
	r.GenerateAudio = audio

	fmt.Printf("%v generate %ds video\n", ellipsis, r.Duration)
	v, err := e.client.GenerateVideo(r)
	if err != nil {
		return err
	}
	fmt.Printf("%v video %d: %v\n", checkmark, v.ID, e.client.ResolveAsset(v.VideoURL))
	return nil
}

func doNamesGenerate(e *env, r api.NamesRequest) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	r.UserID = uid

	gen, err := e.client.GenerateNames(r)
	if err != nil {
		return err
	}
	for _, n := range gen.Names {
		fmt.Println(n)
	}
	return nil
}

func doNamesHistory(e *env) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	h, err := e.client.NameHistory(uid)
	if err != nil {
		return err
	}
	for _, g := range h.Generations {
		fmt.Printf("%5d  %v | %v, %v\n", g.ID, g.CreatedAt.Local().Format(dateFormat), g.Industry, g.Tone)
		fmt.Printf("       %v\n", strings.Join(g.Names, ", "))
	}
	return nil
}

func doChatList(e *env) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}

	chat := store.NewChat(e.client, e.userID)
	err = chat.Load(uid)
	if err != nil {
		return err
	}

	sessions := chat.Sessions()
	if len(sessions) == 0 {
		fmt.Println("Found no chat sessions.")
		return nil
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt.Time)
	})
	for _, s := range sessions {
		fmt.Printf("%5d  %v | %v\n", s.ID, s.UpdatedAt.Local().Format(dateFormat), s.Title)
	}
	return nil
}

func doChatShow(e *env, sessionID int) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	msgs, err := e.client.ChatMessages(sessionID, uid)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		fmt.Printf("[%v] %v\n%v\n\n", m.Role, m.Timestamp.Local().Format(dateFormat), m.Content)
	}
	return nil
}

// doChatSend sends a message, starting a new session if sessionID is 0.
func doChatSend(e *env, sessionID int, message string) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}

	if sessionID == 0 {
		s, err := e.client.CreateChatSession(uid, store.ChatTitle(message))
		if err != nil {
			return err
		}
		sessionID = s.ID
		fmt.Printf("%v new session %d %q\n", checkmark, s.ID, s.Title)
	}

	msgs, err := e.client.SendMessage(uid, sessionID, message)
	if err != nil {
		return err
	}

	reply, ok := api.LastReply(msgs)
	if !ok {
		fmt.Println("No reply.")
		return nil
	}
	fmt.Println(reply.Content)
	return nil
}

func doChatRename(e *env, sessionID int, title string) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	err = e.client.RenameChatSession(sessionID, uid, title)
	if err != nil {
		return err
	}
	fmt.Printf("%v session %d renamed\n", checkmark, sessionID)
	return nil
}

func doChatDelete(e *env, sessionID int) error {
	chat := store.NewChat(e.client, e.userID)
	err := chat.Delete(sessionID)
	if err != nil {
		return err
	}
	fmt.Printf("%v session %d deleted\n", checkmark, sessionID)
	return nil
}

func doChatClear(e *env) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	chat := store.NewChat(e.client, e.userID)
	err = chat.Clear(uid)
	if err != nil {
		return err
	}
	fmt.Printf("%v all sessions deleted\n", checkmark)
	return nil
}

func doSiteList(e *env) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}
	projects, err := e.client.Projects(uid)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("Found no projects.")
		return nil
	}
	for _, p := range projects {
		fmt.Printf("%8v  %v | %v\n", p.ID, p.CreatedAt.Local().Format(dateFormat), p.DisplayName())
		if p.DeployedURL != "" {
			fmt.Printf("          %v\n", p.DeployedURL)
		}
	}
	return nil
}

func doSiteCreate(e *env, title, description, prompt string) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}

	return e.requests.Do(store.CreateProject, func() error {
		p, err := e.client.CreateProject(api.ProjectRequest{
			Title:       title,
			Description: description,
			Prompt:      prompt,
			UserID:      uid,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%v project %v created\n", checkmark, p.ID)
		return nil
	})
}

func doSiteEnhance(e *env, prompt string) error {
	return e.requests.Do(store.EnhancePrompt, func() error {
		enhanced, err := e.client.EnhancePrompt(prompt)
		if err != nil {
			return err
		}
		fmt.Println(enhanced)
		return nil
	})
}

// doSiteChat sends a message to the assistant of a project.
//
// The whole chat history goes with the message and the reply is added to
// the project.
func doSiteChat(e *env, id, message string) error {
	p, err := e.client.Project(id)
	if err != nil {
		return err
	}

	history := append(p.History(), api.ProjectMessage{Role: "user", Content: message})
	prompt, err := api.HistoryPrompt(history)
	if err != nil {
		return err
	}

	return e.requests.Do(store.AIChat, func() error {
		reply, err := e.client.AIChat(prompt)
		if err != nil {
			return err
		}
		fmt.Println(reply)

		history = append(history, api.ProjectMessage{Role: "assistant", Content: reply})
		return e.client.UpdateProject(id, map[string]interface{}{
			"messages":   history,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// doSiteGenerate generates the code for a project and stores the files.
func doSiteGenerate(e *env, id, prompt string) error {
	p, err := e.client.Project(id)
	if err != nil {
		return err
	}
	if prompt == "" {
		prompt = p.Prompt
	}

	return e.requests.Do(store.GenerateCode, func() error {
		fmt.Printf("%v generate code for %q\n", ellipsis, p.DisplayName())
		files, err := e.client.GenerateCode(prompt)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %v\n", name)
		}

		err = e.client.UpdateProject(id, map[string]interface{}{"files": files})
		if err != nil {
			return err
		}
		fmt.Printf("%v %d file(s) stored with project %v\n", checkmark, len(files), id)
		return nil
	})
}

func doSiteDelete(e *env, id string) error {
	err := e.client.DeleteProject(id)
	if err != nil {
		return err
	}
	fmt.Printf("%v project %v deleted\n", checkmark, id)
	return nil
}
