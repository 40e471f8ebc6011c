// Command seed populates a running server with demo data through its HTTP
// API: a handful of citizens, an admin, departments, posts with comment
// threads and votes, follows, and a few reports walked through their
// lifecycle. Point it at a fresh database.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

type client struct {
	baseURL string
	http    *http.Client
	token   string
}

func (c *client) request(method, path string, body interface{}, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, errBody.Error)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type seededUser struct {
	client *client
	id     string
	name   string
}

func registerAndLogin(baseURL, username, email, password string, admin bool) (*seededUser, error) {
	c := &client{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}

	register := map[string]interface{}{
		"username":          username,
		"email":             email,
		"password":          password,
		"isGovernmentAdmin": admin,
	}
	if err := c.request(http.MethodPost, "/user/register", register, nil); err != nil {
		return nil, err
	}

	var login struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	credentials := map[string]string{"email": email, "password": password}
	if err := c.request(http.MethodPost, "/user/login", credentials, &login); err != nil {
		return nil, err
	}
	c.token = login.Token

	return &seededUser{client: c, id: login.UserID, name: username}, nil
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	flag.Parse()

	log.Printf("Seeding %s", *baseURL)

	admin, err := registerAndLogin(*baseURL, "cityhall", "admin@example.gov", "seed-password-1", true)
	if err != nil {
		log.Fatalf("admin setup: %v", err)
	}

	citizenNames := []string{"asha", "bruno", "carmen", "dmitri", "elena"}
	citizens := make([]*seededUser, 0, len(citizenNames))
	for i, name := range citizenNames {
		u, err := registerAndLogin(*baseURL, name, fmt.Sprintf("%s@example.com", name), fmt.Sprintf("seed-password-%d", i+2), false)
		if err != nil {
			log.Fatalf("citizen %s: %v", name, err)
		}
		citizens = append(citizens, u)
	}
	log.Printf("Registered %d citizens and 1 admin", len(citizens))

	// Departments
	var roads, parks struct {
		ID string `json:"id"`
	}
	if err := admin.client.request(http.MethodPost, "/departments", map[string]string{"name": "Roads and Transit"}, &roads); err != nil {
		log.Fatalf("department: %v", err)
	}
	if err := admin.client.request(http.MethodPost, "/departments", map[string]string{"name": "Parks and Recreation"}, &parks); err != nil {
		log.Fatalf("department: %v", err)
	}

	// Follow graph: everyone follows asha, asha follows bruno.
	for _, u := range citizens[1:] {
		if err := u.client.request(http.MethodPost, "/user/follow", map[string]string{"targetUserId": citizens[0].id}, nil); err != nil {
			log.Printf("follow: %v", err)
		}
	}
	if err := citizens[0].client.request(http.MethodPost, "/user/follow", map[string]string{"targetUserId": citizens[1].id}, nil); err != nil {
		log.Printf("follow: %v", err)
	}

	// Posts with a comment thread and votes.
	postBodies := []map[string]interface{}{
		{"title": "Pothole cluster on 5th Avenue", "content": "Three potholes within a block, one deep enough to damage rims."},
		{"title": "Streetlight out by the library", "content": "The corner has been dark for two weeks now."},
		{"title": "Community garden proposal", "content": "The empty lot on Mill Road would make a great garden."},
	}
	var postIDs []string
	for i, body := range postBodies {
		var post struct {
			ID string `json:"id"`
		}
		author := citizens[i%len(citizens)]
		if err := author.client.request(http.MethodPost, "/posts", body, &post); err != nil {
			log.Fatalf("post: %v", err)
		}
		postIDs = append(postIDs, post.ID)
	}

	var topComment struct {
		ID string `json:"id"`
	}
	if err := citizens[1].client.request(http.MethodPost, "/comment", map[string]interface{}{
		"postId":  postIDs[0],
		"content": "Same story one street over. Reported it last month.",
	}, &topComment); err != nil {
		log.Fatalf("comment: %v", err)
	}
	if err := citizens[2].client.request(http.MethodPost, "/comment", map[string]interface{}{
		"postId":   postIDs[0],
		"parentId": topComment.ID,
		"content":  "Did anything come of the report?",
	}, nil); err != nil {
		log.Fatalf("reply: %v", err)
	}

	for _, u := range citizens {
		if err := u.client.request(http.MethodPost, "/posts/vote", map[string]string{
			"targetId":  postIDs[0],
			"direction": "up",
		}, nil); err != nil {
			log.Printf("vote: %v", err)
		}
	}

	// Reports: one left pending, one assigned, one resolved.
	reportBodies := []map[string]interface{}{
		{"title": "Broken swing at Mill Road park", "description": "Chain snapped on the left swing.", "category": "service", "priority": "low"},
		{"title": "Collapsed drain on 5th Avenue", "description": "Water pools across both lanes after rain.", "category": "service", "priority": "high"},
		{"title": "Permit office asking for cash payments", "description": "Clerk refused card payment twice.", "category": "corruption", "priority": "high"},
	}
	var reportIDs []string
	for i, body := range reportBodies {
		var report struct {
			ID string `json:"id"`
		}
		if err := citizens[i%len(citizens)].client.request(http.MethodPost, "/reports", body, &report); err != nil {
			log.Fatalf("report: %v", err)
		}
		reportIDs = append(reportIDs, report.ID)
	}

	if err := admin.client.request(http.MethodPost, "/reports/assign", map[string]string{
		"reportId":     reportIDs[1],
		"departmentId": roads.ID,
	}, nil); err != nil {
		log.Fatalf("assign: %v", err)
	}
	if err := admin.client.request(http.MethodPost, "/reports/assign", map[string]string{
		"reportId":     reportIDs[2],
		"departmentId": roads.ID,
	}, nil); err != nil {
		log.Fatalf("assign: %v", err)
	}
	if err := admin.client.request(http.MethodPost, "/reports/status", map[string]string{
		"reportId": reportIDs[2],
		"status":   "resolved",
	}, nil); err != nil {
		log.Fatalf("status: %v", err)
	}

	if err := admin.client.request(http.MethodPost, "/reports/anonymous", map[string]string{
		"category":    "corruption",
		"description": "Inspector hinting at expedite fees on the east side.",
	}, nil); err != nil {
		log.Fatalf("anonymous report: %v", err)
	}

	// Department-published content.
	if err := admin.client.request(http.MethodPost, "/departments/updates", map[string]interface{}{
		"departmentId": roads.ID,
		"title":        "5th Avenue resurfacing",
		"description":  "Contract awarded, work starts next month.",
		"status":       "in_progress",
	}, nil); err != nil {
		log.Fatalf("project update: %v", err)
	}
	if err := admin.client.request(http.MethodPost, "/polls", map[string]interface{}{
		"departmentId": parks.ID,
		"title":        "Mill Road lot",
		"question":     "What should the Mill Road lot become?",
		"options":      []string{"Community garden", "Playground", "Parking"},
	}, nil); err != nil {
		log.Fatalf("poll: %v", err)
	}
	if err := admin.client.request(http.MethodPost, "/gov/notifications", map[string]interface{}{
		"departmentId": roads.ID,
		"message":      "5th Avenue closed to through traffic this weekend.",
		"isBroadcast":  true,
	}, nil); err != nil {
		log.Fatalf("gov notification: %v", err)
	}

	if err := citizens[0].client.request(http.MethodPost, "/messages", map[string]string{
		"recipientId": citizens[1].id,
		"content":     "Are you going to the town hall meeting on Thursday?",
	}, nil); err != nil {
		log.Fatalf("message: %v", err)
	}

	log.Printf("Seed complete: %d posts, %d reports, 2 departments", len(postIDs), len(reportIDs))
}
