package models

var (
	ProfessionPromptTemplate = `Extract the candidate's current profession or job title from this CV excerpt.
Return ONLY the job title/profession, nothing else. If unclear, return "Not Specified".

Examples of good responses:
- Software Engineer
- Senior Product Manager
- Data Scientist
- Full Stack Developer
- UX Designer

CV excerpt:
%s

Profession:`

	SummaryPromptTemplate = `Based on the following CV information, create a well-structured professional summary.

CV Content:
%s

Please provide a comprehensive summary with the following sections:
1. **Current Position**: Current or most recent job title and company
2. **Professional Summary**: A brief 2-3 sentence overview of their career
3. **Years of Experience**: Calculate total years of professional experience based on employment dates
4. **Key Skills**: List all technical skills, tools, frameworks, and technologies (organized by category if applicable)
5. **Work Experience**: Summarize each position with company name, role, dates, and key responsibilities/achievements
6. **Education**: Degrees, institutions, and graduation years
7. **Certifications**: Any professional certifications or additional training
8. **Notable Achievements**: Key accomplishments or projects worth highlighting

Format the response in a clear, professional manner using markdown. Be concise but thorough.
If any information is not available in the CV, indicate "Not specified" for that section.
`

	SuperheroPromptTemplate = `You are creating a "superhero" candidate by combining the best skills and qualifications from multiple candidates.

Here are the candidates:

%s

Task:
1. Extract the key skills, technologies, experiences, and qualifications from each candidate
2. Combine them into one comprehensive profile highlighting the BEST and most impressive aspects from each
3. Remove duplicates and organize by category (Technical Skills, Experience, Education, etc.)
4. Make it read like a powerful, combined resume profile
5. Keep the response concise and under 800 words

Superhero Name: %s

Create a compelling superhero candidate profile:`
)
